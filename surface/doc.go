// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the drawing targets text is rendered onto.
//
// The Surface interface is deliberately small: text rendering needs
// path fills (glyph outlines), rectangle fills (backgrounds, selection,
// decorations) and image blits (double buffering).
//
// # Backends
//
// ImageSurface renders on the CPU into an *image.RGBA using
// golang.org/x/image/vector. Further backends plug in through the
// registry:
//
//	surface.Register("mybackend", 50, func(opts surface.Options) (surface.Surface, error) {
//	    return newMySurface(opts.Width, opts.Height)
//	})
//
//	s, err := surface.NewSurfaceByName("mybackend", surface.DefaultOptions(800, 20))
package surface
