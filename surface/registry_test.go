// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image/color"
	"testing"
)

// TestRegistryRegister tests backend registration.
func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("test", 50, func(opts Options) (Surface, error) {
		return NewImageSurface(opts.Width, opts.Height), nil
	})

	s, err := r.NewSurfaceByName("test", DefaultOptions(8, 4))
	if err != nil {
		t.Fatalf("NewSurfaceByName() error = %v", err)
	}
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("size = %dx%d, want 8x4", s.Width(), s.Height())
	}
}

// TestRegistryPriority tests that NewSurface prefers higher priorities.
func TestRegistryPriority(t *testing.T) {
	r := NewRegistry()
	failing := errors.New("unavailable")
	r.Register("low", 10, func(opts Options) (Surface, error) {
		return NewImageSurface(1, 1), nil
	})
	r.Register("high", 100, func(opts Options) (Surface, error) {
		return nil, failing
	})

	if got := r.List(); len(got) != 2 || got[0] != "high" || got[1] != "low" {
		t.Fatalf("List() = %v, want [high low]", got)
	}

	// high fails, low is used.
	s, err := r.NewSurface(DefaultOptions(1, 1))
	if err != nil || s == nil {
		t.Fatalf("NewSurface() = %v, %v", s, err)
	}

	r.Unregister("low")
	if _, err := r.NewSurface(DefaultOptions(1, 1)); !errors.Is(err, failing) {
		t.Errorf("NewSurface() error = %v, want %v", err, failing)
	}
}

// TestRegistryNotFound tests lookups of unknown backends.
func TestRegistryNotFound(t *testing.T) {
	r := NewRegistry()
	if _, err := r.NewSurface(DefaultOptions(1, 1)); !errors.Is(err, ErrNoBackendAvailable) {
		t.Errorf("empty registry error = %v, want ErrNoBackendAvailable", err)
	}

	_, err := r.NewSurfaceByName("missing", DefaultOptions(1, 1))
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) || nf.Name != "missing" {
		t.Errorf("error = %v, want BackendNotFoundError{missing}", err)
	}
}

// TestGlobalImageBackend tests the built-in backend and background option.
func TestGlobalImageBackend(t *testing.T) {
	opts := Options{Width: 3, Height: 3, Background: color.White}
	s, err := NewSurfaceByName(ImageBackend, opts)
	if err != nil {
		t.Fatalf("NewSurfaceByName(image) error = %v", err)
	}
	if got := s.Snapshot().RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background pixel = %v, want white", got)
	}
}
