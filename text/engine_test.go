package text

import (
	"errors"
	"math"
	"testing"

	"github.com/go-text/typesetting/language"
)

func TestBuiltinShapeLatin(t *testing.T) {
	font := regularFont(t, 16)
	e := NewBuiltinEngine()
	text := []rune("Hello")

	g, err := e.Shape(text, ltr(), font, 16, nil)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if g.Len() != 5 {
		t.Fatalf("got %d glyphs, want 5", g.Len())
	}
	for i, r := range text {
		if g.Clusters[i] != i {
			t.Errorf("cluster %d = %d", i, g.Clusters[i])
		}
		if g.Indices[i] != font.GlyphIndex(r) {
			t.Errorf("glyph %d = %d, want %d", i, g.Indices[i], font.GlyphIndex(r))
		}
		if !g.Attrs[i].ClusterStart {
			t.Errorf("glyph %d is not a cluster start", i)
		}
	}

	adv, off, err := e.Place(g, ltr(), font, nil)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(adv) != 5 || len(off) != 5 {
		t.Fatalf("Place returned %d advances, %d offsets", len(adv), len(off))
	}
	for i, a := range adv {
		if a <= 0 {
			t.Errorf("advance %d = %v, want > 0", i, a)
		}
	}
}

func TestBuiltinShapeRTL(t *testing.T) {
	font := regularFont(t, 16)
	e := NewBuiltinEngine()

	g, err := e.Shape([]rune("ab("), rtl(), font, 16, nil)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	want := []int{2, 1, 0}
	for i, c := range want {
		if g.Clusters[i] != c {
			t.Errorf("cluster %d = %d, want %d", i, g.Clusters[i], c)
		}
	}
	if g.Indices[0] != font.GlyphIndex(')') {
		t.Errorf("'(' not mirrored: glyph %d", g.Indices[0])
	}
	if g.Indices[2] != font.GlyphIndex('a') {
		t.Errorf("visually last glyph = %d, want 'a'", g.Indices[2])
	}
}

func TestBuiltinShapeMarks(t *testing.T) {
	font := regularFont(t, 16)
	e := NewBuiltinEngine()

	// e + COMBINING ACUTE ACCENT + x
	g, err := e.Shape([]rune("e\u0301x"), ltr(), font, 16, nil)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if g.Clusters[0] != 0 || g.Clusters[1] != 0 || g.Clusters[2] != 2 {
		t.Errorf("clusters = %v, want [0 0 2]", g.Clusters)
	}
	if g.Attrs[1].ClusterStart || !g.Attrs[1].Diacritic || !g.Attrs[1].ZeroWidth {
		t.Errorf("mark attrs = %+v", g.Attrs[1])
	}
	adv, _, _ := e.Place(g, ltr(), font, nil)
	if adv[1] != 0 {
		t.Errorf("mark advance = %v, want 0", adv[1])
	}
}

func TestBuiltinShapeErrors(t *testing.T) {
	font := regularFont(t, 16)
	e := NewBuiltinEngine()

	if _, err := e.Shape([]rune("Hello"), ltr(), font, 4, nil); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("small buffer: err = %v, want ErrBufferTooSmall", err)
	}

	hebrew := ScriptAnalysis{Script: language.Hebrew, Level: 1}
	_, err := e.Shape([]rune("שלום"), hebrew, font, 16, nil)
	if !errors.Is(err, ErrScriptNotInFont) {
		t.Fatalf("Hebrew in Go Regular: err = %v, want ErrScriptNotInFont", err)
	}
	var se *ShapingError
	if !errors.As(err, &se) || se.Engine != "builtin" {
		t.Errorf("err = %#v, want *ShapingError from builtin", err)
	}

	// Without a script the same text shapes to missing glyphs.
	g, err := e.Shape([]rune("שלום"), rtl(), font, 16, nil)
	if err != nil {
		t.Fatalf("undefined script: %v", err)
	}
	for i, gid := range g.Indices {
		if gid != font.DefaultGlyph() {
			t.Errorf("glyph %d = %d, want default glyph", i, gid)
		}
	}
}

func TestBuiltinDigitSubstitution(t *testing.T) {
	font := regularFont(t, 16)
	e := NewBuiltinEngine()
	// Go Regular has no Arabic-Indic digits, so substituted digits come
	// out as missing glyphs.
	a := ScriptAnalysis{Script: ScriptUndefined, DigitSubstitute: true, NativeZero: 0x0660}
	g, err := e.Shape([]rune("1"), a, font, 4, nil)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if g.Indices[0] == font.GlyphIndex('1') {
		t.Error("digit was not substituted")
	}
}

func TestBuiltinLogicalAttributes(t *testing.T) {
	e := NewBuiltinEngine()
	text := []rune("hello world")
	attrs := e.LogicalAttributes(text, ltr())
	if len(attrs) != len(text) {
		t.Fatalf("got %d attributes", len(attrs))
	}
	for i, a := range attrs {
		if wantBreak := i == 6; a.SoftBreak != wantBreak {
			t.Errorf("SoftBreak[%d] = %v, want %v", i, a.SoftBreak, wantBreak)
		}
		if wantSpace := i == 5; a.WhiteSpace != wantSpace {
			t.Errorf("WhiteSpace[%d] = %v, want %v", i, a.WhiteSpace, wantSpace)
		}
		if !a.CharStop {
			t.Errorf("CharStop[%d] = false", i)
		}
		if wantWord := i == 0 || i == 6; a.WordStop != wantWord {
			t.Errorf("WordStop[%d] = %v, want %v", i, a.WordStop, wantWord)
		}
	}

	marks := e.LogicalAttributes([]rune("e\u0301"), ltr())
	if marks[1].CharStop {
		t.Error("caret may stop before a combining mark")
	}
}

func TestGoTextShape(t *testing.T) {
	font := regularFont(t, 16)
	e := NewGoTextEngine(WithLanguage("en"))
	text := []rune("Hello")

	var cache ScriptCache
	g, err := e.Shape(text, ScriptAnalysis{Script: language.Latin}, font, 16, &cache)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if g.Len() != 5 {
		t.Fatalf("got %d glyphs, want 5", g.Len())
	}
	for i := range text {
		if g.Clusters[i] != i {
			t.Errorf("cluster %d = %d, want %d", i, g.Clusters[i], i)
		}
	}
	adv, off, err := e.Place(g, ScriptAnalysis{Script: language.Latin}, font, &cache)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(adv) != 5 || len(off) != 5 {
		t.Fatalf("Place returned %d advances, %d offsets", len(adv), len(off))
	}
	for i, a := range adv {
		if a <= 0 {
			t.Errorf("advance %d = %v, want > 0", i, a)
		}
	}
}

func TestGoTextShapeRTL(t *testing.T) {
	font := regularFont(t, 16)
	e := NewGoTextEngine()

	g, err := e.Shape([]rune("abc"), rtl(), font, 16, nil)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	want := []int{2, 1, 0}
	for i, c := range want {
		if g.Clusters[i] != c {
			t.Errorf("cluster %d = %d, want %d", i, g.Clusters[i], c)
		}
	}
}

func TestGoTextBufferTooSmall(t *testing.T) {
	font := regularFont(t, 16)
	e := NewGoTextEngine()
	if _, err := e.Shape([]rune("Hello"), ltr(), font, 2, nil); !errors.Is(err, ErrBufferTooSmall) {
		t.Errorf("err = %v, want ErrBufferTooSmall", err)
	}
}

func TestGoTextLogicalAttributes(t *testing.T) {
	e := NewGoTextEngine()
	attrs := e.LogicalAttributes([]rune("hello world"), ltr())
	if !attrs[6].SoftBreak {
		t.Error("no break opportunity before \"world\"")
	}
	if attrs[3].SoftBreak {
		t.Error("break opportunity inside a word")
	}
	if !attrs[5].WhiteSpace {
		t.Error("space is not white space")
	}
	if !attrs[0].CharStop || !attrs[0].WordStop {
		t.Error("first character is not a stop")
	}
}

func TestEnginesAgreeOnCarets(t *testing.T) {
	font := monoFont(t, 20)
	text := []rune("caret")
	engines := map[string]Engine{"builtin": NewBuiltinEngine(), "gotext": NewGoTextEngine()}
	for name, e := range engines {
		t.Run(name, func(t *testing.T) {
			var cache ScriptCache
			g, err := e.Shape(text, ltr(), font, 16, &cache)
			if err != nil {
				t.Fatalf("Shape: %v", err)
			}
			adv, _, err := e.Place(g, ltr(), font, &cache)
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			w := adv[0]
			for cp := 0; cp <= len(text); cp++ {
				if x := e.CPToX(cp, false, g, adv, ltr()); math.Abs(x-float64(cp)*w) > 1e-6 {
					t.Errorf("CPToX(%d) = %v, want %v", cp, x, float64(cp)*w)
				}
			}
			cp, trailing := e.XToCP(2.8*w, g, adv, ltr())
			if cp != 2 || !trailing {
				t.Errorf("XToCP = (%d, %v), want (2, true)", cp, trailing)
			}
		})
	}
}
