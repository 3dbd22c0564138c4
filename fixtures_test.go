package textlayout

import (
	"testing"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/textlayout/settings"
	"github.com/gogpu/textlayout/text"
)

const testFontSize = 16

// testEnvironment returns default settings with a fixed English locale.
func testEnvironment(t *testing.T) *Environment {
	t.Helper()

	s := settings.Default()
	s.Locale = "en-US"
	s.DigitSubstitution = "none"
	env, err := NewEnvironment(s)
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	return env
}

// monoFonts returns a collection holding only Go Mono, so that every
// character the font has is equally wide.
func monoFonts(t *testing.T) *text.Collection {
	t.Helper()

	src, err := text.NewFontSource(gomono.TTF)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}
	return text.NewCollection(src)
}

// testContext builds a layout context over doc with Go Mono and the
// builtin engine. A nil pres uses a default presentation.
func testContext(t *testing.T, doc Document, pres Presentation, width float64) *LayoutContext {
	t.Helper()

	if pres == nil {
		pres = NewSimplePresentation()
	}
	fonts := monoFonts(t)
	primary, err := fonts.Resolve(text.FontRequest{Size: testFontSize})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return &LayoutContext{
		Document:     doc,
		Presentation: pres,
		Engine:       text.NewBuiltinEngine(),
		Fonts:        fonts,
		Environment:  testEnvironment(t),
		PrimaryFont:  primary,
		LayoutWidth:  width,
	}
}

// charWidth returns the advance of every Latin character of the primary font.
func charWidth(ctx *LayoutContext) float64 {
	f := ctx.PrimaryFont
	return f.Advance(f.GlyphIndex('m'))
}

// wrapPresentation returns a presentation whose lines wrap.
func wrapPresentation(align Alignment) *SimplePresentation {
	p := NewSimplePresentation()
	p.SetDefaultLineStyle(LineStyle{Alignment: align, Wrap: LineWrap{Mode: WrapNormal}})
	return p
}

// layoutOf builds the layout of line 0 of s.
func layoutOf(t *testing.T, s string, pres Presentation, width float64) *LineLayout {
	t.Helper()

	ctx := testContext(t, NewSimpleDocument(s), pres, width)
	l, err := NewLineLayout(ctx, 0)
	if err != nil {
		t.Fatalf("NewLineLayout(%q): %v", s, err)
	}
	return l
}

// approx reports whether a and b differ by less than 1e-6.
func approx(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
