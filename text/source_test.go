package text

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestNewFontSource(t *testing.T) {
	source := testSource(t, goregular.TTF)
	if source.Name() != "Go" {
		t.Errorf("Name = %q, want %q", source.Name(), "Go")
	}
	if source.UnitsPerEm() <= 0 {
		t.Errorf("UnitsPerEm = %d", source.UnitsPerEm())
	}
	if !source.HasGlyph('A') {
		t.Error("Go Regular has no 'A'")
	}
	if source.HasGlyph('א') {
		t.Error("Go Regular claims a Hebrew glyph")
	}
	// The Go fonts map U+FFFF to .notdef.
	if source.HasGlyph(0xFFFF) {
		t.Error("HasGlyph(U+FFFF) = true for a .notdef mapping")
	}
}

func TestNewFontSourceCopiesData(t *testing.T) {
	data := append([]byte(nil), gomono.TTF...)
	source, err := NewFontSource(data)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}
	for i := range data {
		data[i] = 0
	}
	if !source.HasGlyph('x') {
		t.Error("source depends on the caller's buffer")
	}
}

func TestNewFontSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	source, err := NewFontSourceFromFile(path)
	if err != nil {
		t.Fatalf("NewFontSourceFromFile: %v", err)
	}
	if source.Location() != path {
		t.Errorf("Location = %q, want %q", source.Location(), path)
	}

	if _, err := NewFontSourceFromFile(filepath.Join(t.TempDir(), "missing.ttf")); err == nil {
		t.Error("missing file: expected error")
	}
}

func TestNewFontSourceErrors(t *testing.T) {
	if _, err := NewFontSource(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("empty data: err = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewFontSource([]byte("not a font")); err == nil {
		t.Error("invalid data: expected error")
	}
	if _, err := NewFontSource(goregular.TTF, WithCollectionIndex(3)); err == nil {
		t.Error("index out of range: expected error")
	}
}

func TestFontSourceFont(t *testing.T) {
	source := testSource(t, goregular.TTF)
	if _, err := source.Font(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("size 0: err = %v, want ErrInvalidSize", err)
	}
	f, err := source.Font(24)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if f.Source() != source || f.Size() != 24 || f.Family() != "Go" {
		t.Errorf("font = %s %v", f.Family(), f.Size())
	}
}

func TestFontMetrics(t *testing.T) {
	f := regularFont(t, 32)
	m := f.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 {
		t.Errorf("ascent %v descent %v, want positive", m.Ascent, m.Descent)
	}
	if m.CellHeight != m.Ascent+m.Descent {
		t.Errorf("CellHeight = %v, want %v", m.CellHeight, m.Ascent+m.Descent)
	}
	if m.LineGap < 0 {
		t.Errorf("LineGap = %v", m.LineGap)
	}
	if m.XHeight <= 0 || m.XHeight >= m.Ascent {
		t.Errorf("XHeight = %v, ascent %v", m.XHeight, m.Ascent)
	}
	if m.AverageCharWidth <= 0 || m.AverageCharWidth >= 32 {
		t.Errorf("AverageCharWidth = %v", m.AverageCharWidth)
	}

	mono := monoFont(t, 32)
	if got, want := mono.Metrics().AverageCharWidth, mono.Advance(mono.GlyphIndex('m')); got != want {
		t.Errorf("mono AverageCharWidth = %v, want %v", got, want)
	}
}

func TestFontGlyphs(t *testing.T) {
	f := regularFont(t, 16)
	if f.GlyphIndex('A') == f.DefaultGlyph() {
		t.Error("'A' maps to the default glyph")
	}
	if f.GlyphIndex('א') != f.DefaultGlyph() {
		t.Error("Hebrew maps to a real glyph")
	}
	if f.BlankGlyph() != f.GlyphIndex(' ') {
		t.Errorf("BlankGlyph = %d, want the space glyph", f.BlankGlyph())
	}
	if _, ok := f.VariantGlyph('A', 0xFE0F); ok {
		t.Error("Go Regular has no variation sequences")
	}
	if f.Advance(f.GlyphIndex('W')) <= f.Advance(f.GlyphIndex('i')) {
		t.Error("'W' is not wider than 'i'")
	}
}

func TestFontUnderline(t *testing.T) {
	f := regularFont(t, 28)
	offset, thickness := f.Underline()
	if offset <= 0 || thickness <= 0 {
		t.Errorf("Underline = (%v, %v), want positive", offset, thickness)
	}
	if offset > f.Metrics().Descent*2 {
		t.Errorf("underline offset %v far below descent %v", offset, f.Metrics().Descent)
	}
}

func TestFontAppendGlyph(t *testing.T) {
	f := regularFont(t, 20)
	p := surfacePath()
	f.AppendGlyph(p, f.GlyphIndex('H'), 100, 50)
	if p.IsEmpty() {
		t.Fatal("no outline for 'H'")
	}
	b := p.Bounds()
	if b.MinX < 100 || b.MaxY > 50.5 || b.MinY >= 50 {
		t.Errorf("outline bounds %+v not above the baseline at (100, 50)", b)
	}

	blank := surfacePath()
	f.AppendGlyph(blank, f.BlankGlyph(), 0, 0)
	if !blank.IsEmpty() {
		t.Error("space glyph has an outline")
	}
}

func TestIgnorable(t *testing.T) {
	f := regularFont(t, 16)
	for _, r := range []rune{'\t', 0x200D, 0xFE0F, 0xE0100} {
		if !covers(f, r) {
			t.Errorf("%U is not covered", r)
		}
	}
	if !IsVariationSelector(0xFE00) || IsVariationSelector('a') {
		t.Error("IsVariationSelector")
	}
}
