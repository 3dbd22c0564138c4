// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
)

// Surface is the drawing target of text rendering.
//
// A Surface represents a 2D canvas that can be drawn to. Surfaces are NOT
// thread-safe. Each surface should be used from a single goroutine.
//
// Example usage:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//	img := s.Snapshot()
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// Fill fills the given path using the specified style.
	// The path is not modified or consumed.
	Fill(path *Path, style FillStyle)

	// FillRect fills an axis-aligned rectangle.
	FillRect(r Rect, c color.Color)

	// DrawImage composites img with its top-left corner at the given point.
	DrawImage(img image.Image, at Point)

	// Snapshot returns the current surface contents as an RGBA image.
	// The returned image is a copy.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// ClippableSurface is an optional interface for surfaces with clipping support.
type ClippableSurface interface {
	Surface

	// SetClip restricts subsequent drawing to r.
	SetClip(r image.Rectangle)

	// ClearClip removes the clipping region.
	ClearClip()
}
