// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"
	"testing"
)

func TestImageSurfaceDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"normal", 100, 50, 100, 50},
		{"zero width", 0, 10, 1, 10},
		{"negative height", 10, -5, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewImageSurface(tt.width, tt.height)
			if s.Width() != tt.wantW || s.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageSurfaceClear(t *testing.T) {
	s := NewImageSurface(4, 4)
	s.Clear(color.RGBA{10, 20, 30, 255})

	got := s.Snapshot().RGBAAt(2, 3)
	if got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v, want {10 20 30 255}", got)
	}
}

func TestImageSurfaceFillPath(t *testing.T) {
	s := NewImageSurface(20, 20)
	s.Clear(color.White)

	p := NewPath()
	p.Rectangle(Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15})
	s.Fill(p, FillStyle{Color: color.RGBA{255, 0, 0, 255}})

	img := s.Snapshot()
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside pixel = %v, want red", got)
	}
	if got := img.RGBAAt(2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside pixel = %v, want white", got)
	}
}

func TestImageSurfaceFillPartiallyOutside(t *testing.T) {
	s := NewImageSurface(10, 10)

	p := NewPath()
	p.Rectangle(Rect{MinX: -20, MinY: -20, MaxX: 5, MaxY: 5})
	s.Fill(p, FillStyle{Color: color.Black})

	img := s.Snapshot()
	if got := img.RGBAAt(2, 2); got.A != 255 {
		t.Errorf("covered pixel alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(8, 8); got.A != 0 {
		t.Errorf("uncovered pixel alpha = %d, want 0", got.A)
	}
}

func TestImageSurfaceClip(t *testing.T) {
	s := NewImageSurface(10, 10)
	s.SetClip(image.Rect(0, 0, 5, 10))
	s.FillRect(Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, color.Black)

	img := s.Snapshot()
	if img.RGBAAt(2, 5).A != 255 {
		t.Error("pixel inside clip should be painted")
	}
	if img.RGBAAt(7, 5).A != 0 {
		t.Error("pixel outside clip should stay transparent")
	}

	s.ClearClip()
	s.FillRect(Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, color.Black)
	if s.Snapshot().RGBAAt(7, 5).A != 255 {
		t.Error("pixel should be painted after ClearClip")
	}
}

func TestImageSurfaceDrawImage(t *testing.T) {
	src := NewImageSurface(2, 2)
	src.Clear(color.RGBA{0, 0, 255, 255})

	dst := NewImageSurface(6, 6)
	dst.DrawImage(src.Snapshot(), Pt(3, 3))

	img := dst.Snapshot()
	if got := img.RGBAAt(4, 4); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("blitted pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("pixel outside blit = %v, want transparent", got)
	}
}

func TestImageSurfaceSnapshotIsCopy(t *testing.T) {
	s := NewImageSurface(2, 2)
	snap := s.Snapshot()
	s.Clear(color.Black)
	if snap.RGBAAt(0, 0).A != 0 {
		t.Error("snapshot must not alias the surface")
	}
}

func TestImageSurfaceClosed(t *testing.T) {
	s := NewImageSurface(2, 2)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	s.Clear(color.Black)
	if s.Snapshot().RGBAAt(0, 0).A != 0 {
		t.Error("closed surface must ignore drawing")
	}
}
