// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// ImageSurface is a CPU-based surface that renders to an *image.RGBA.
//
// Paths are rasterized with golang.org/x/image/vector (anti-aliased,
// non-zero winding) and composited with golang.org/x/image/draw.
//
// Example:
//
//	s := surface.NewImageSurface(800, 600)
//	defer s.Close()
//
//	s.Clear(color.White)
//	path := surface.NewPath()
//	path.Rectangle(surface.Rect{MinX: 10, MinY: 10, MaxX: 90, MaxY: 40})
//	s.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//
//	img := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA

	// rasterizer is reused between fills
	rasterizer *vector.Rasterizer

	clip    image.Rectangle
	clipped bool

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new CPU-based surface with the given dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &ImageSurface{
		width:      width,
		height:     height,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		rasterizer: vector.NewRasterizer(1, 1),
	}
}

// NewImageSurfaceFromImage creates a surface backed by an existing image.
// The surface will render into the provided image directly.
func NewImageSurfaceFromImage(img *image.RGBA) *ImageSurface {
	b := img.Bounds()
	return &ImageSurface{
		width:      b.Dx(),
		height:     b.Dy(),
		img:        img,
		rasterizer: vector.NewRasterizer(1, 1),
	}
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Image returns the backing image. Drawing through the surface mutates it.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// bounds returns the drawable area: the image bounds, clipped.
func (s *ImageSurface) bounds() image.Rectangle {
	b := s.img.Bounds()
	if s.clipped {
		b = b.Intersect(s.clip)
	}
	return b
}

// Clear fills the entire surface with the given color, ignoring the clip.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Fill fills the given path using the specified style.
func (s *ImageSurface) Fill(path *Path, style FillStyle) {
	if s.closed || path == nil || path.IsEmpty() {
		return
	}
	c := style.Color
	if c == nil {
		c = color.Black
	}

	pb := path.Bounds()
	area := image.Rect(
		int(math.Floor(pb.MinX)), int(math.Floor(pb.MinY)),
		int(math.Ceil(pb.MaxX))+1, int(math.Ceil(pb.MaxY))+1,
	)
	target := area.Intersect(s.bounds())
	if target.Empty() {
		return
	}

	// Rasterize in a buffer covering the visible part of the path only.
	// The mask origin is target.Min.
	ox, oy := float32(target.Min.X), float32(target.Min.Y)
	z := s.rasterizer
	z.Reset(target.Dx(), target.Dy())
	z.DrawOp = draw.Over

	pts := path.Points()
	i := 0
	open := false
	for _, v := range path.Verbs() {
		switch v {
		case VerbMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(pts[i]-ox, pts[i+1]-oy)
			open = true
		case VerbLineTo:
			z.LineTo(pts[i]-ox, pts[i+1]-oy)
		case VerbQuadTo:
			z.QuadTo(pts[i]-ox, pts[i+1]-oy, pts[i+2]-ox, pts[i+3]-oy)
		case VerbCubicTo:
			z.CubeTo(pts[i]-ox, pts[i+1]-oy, pts[i+2]-ox, pts[i+3]-oy, pts[i+4]-ox, pts[i+5]-oy)
		case VerbClose:
			if open {
				z.ClosePath()
				open = false
			}
		}
		i += 2 * v.pointCount()
	}
	if open {
		z.ClosePath()
	}

	z.Draw(s.img, target, image.NewUniform(c), image.Point{})
}

// FillRect fills an axis-aligned rectangle, snapped to whole pixels.
func (s *ImageSurface) FillRect(r Rect, c color.Color) {
	if s.closed || r.Empty() {
		return
	}
	target := image.Rect(
		int(math.Round(r.MinX)), int(math.Round(r.MinY)),
		int(math.Round(r.MaxX)), int(math.Round(r.MaxY)),
	).Intersect(s.bounds())
	if target.Empty() {
		return
	}
	draw.Draw(s.img, target, image.NewUniform(c), image.Point{}, draw.Over)
}

// DrawImage composites img with its top-left corner at the given point.
func (s *ImageSurface) DrawImage(img image.Image, at Point) {
	if s.closed || img == nil {
		return
	}
	sb := img.Bounds()
	dst := image.Rect(0, 0, sb.Dx(), sb.Dy()).
		Add(image.Pt(int(math.Round(at.X)), int(math.Round(at.Y))))
	target := dst.Intersect(s.bounds())
	if target.Empty() {
		return
	}
	draw.Draw(s.img, target, img, sb.Min.Add(target.Min.Sub(dst.Min)), draw.Over)
}

// SetClip restricts subsequent drawing to r.
func (s *ImageSurface) SetClip(r image.Rectangle) {
	s.clip = r
	s.clipped = true
}

// ClearClip removes the clipping region.
func (s *ImageSurface) ClearClip() {
	s.clipped = false
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Close releases the surface. Close is idempotent.
func (s *ImageSurface) Close() error {
	s.closed = true
	return nil
}

// Verify ImageSurface implements ClippableSurface.
var _ ClippableSurface = (*ImageSurface)(nil)
