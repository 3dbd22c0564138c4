package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestFontMapResolver(t *testing.T) {
	r := NewFontMapResolver()
	regular := testSource(t, goregular.TTF)
	mono := testSource(t, gomono.TTF)
	for _, s := range []*FontSource{regular, mono} {
		if err := r.AddSource(s); err != nil {
			t.Fatalf("AddSource(%s): %v", s.Name(), err)
		}
	}

	f, err := r.Resolve(FontRequest{Family: mono.Name(), Size: 14})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Source() != mono {
		t.Errorf("resolved %q, want %q", f.Family(), mono.Name())
	}
	if f.Size() != 14 {
		t.Errorf("Size = %v, want 14", f.Size())
	}

	if _, err := r.Resolve(FontRequest{Family: mono.Name()}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero size: err = %v, want ErrInvalidSize", err)
	}
}
