package text

import (
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textlayout/surface"
)

// testSource loads one of the Go fonts.
func testSource(t *testing.T, data []byte) *FontSource {
	t.Helper()

	source, err := NewFontSource(data)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}
	return source
}

// regularFont returns Go Regular at size.
func regularFont(t *testing.T, size float64) *Font {
	t.Helper()

	f, err := testSource(t, goregular.TTF).Font(size)
	if err != nil {
		t.Fatalf("Font(%v): %v", size, err)
	}
	return f
}

// monoFont returns Go Mono at size. Every character it has advances by
// the same width.
func monoFont(t *testing.T, size float64) *Font {
	t.Helper()

	f, err := testSource(t, gomono.TTF).Font(size)
	if err != nil {
		t.Fatalf("Font(%v): %v", size, err)
	}
	return f
}

func ltr() ScriptAnalysis { return ScriptAnalysis{Script: ScriptUndefined} }

func rtl() ScriptAnalysis { return ScriptAnalysis{Script: ScriptUndefined, Level: 1} }

func surfacePath() *surface.Path { return surface.NewPath() }
