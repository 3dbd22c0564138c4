package text

import (
	"unicode"

	"github.com/gorilla/i18n/linebreak"
)

// BuiltinEngine is a dependency-light engine: one glyph per character,
// glyph indices and advances from golang.org/x/image/font/sfnt, and UAX #14
// break opportunities from github.com/gorilla/i18n/linebreak.
//
// It does not apply OpenType substitutions or kerning. Combining marks
// join the cluster of their base and are placed with a zero advance.
type BuiltinEngine struct {
	engineBase
}

// NewBuiltinEngine creates a BuiltinEngine.
func NewBuiltinEngine() *BuiltinEngine {
	return &BuiltinEngine{}
}

// Shape implements Engine.
func (e *BuiltinEngine) Shape(text []rune, a ScriptAnalysis, font *Font, maxGlyphs int, cache *ScriptCache) (Glyphs, error) {
	n := len(text)
	if n > maxGlyphs {
		return Glyphs{}, ErrBufferTooSmall
	}
	if err := checkScript(text, a, font); err != nil {
		return Glyphs{}, &ShapingError{Engine: "builtin", End: n, Err: err}
	}

	src := substituteDigits(text, a)
	rtl := a.IsRTL()
	glyphOf := func(i int) int {
		if rtl {
			return n - 1 - i
		}
		return i
	}

	g := Glyphs{
		Indices:  make([]GlyphID, n),
		Clusters: make([]int, n),
		Attrs:    make([]GlyphAttr, n),
	}
	base := 0
	for i, r := range src {
		mark := i > 0 && isMark(r)
		if !mark {
			base = i
		}
		if rtl && !a.InhibitMirroring {
			r = mirror(r)
		}
		gid, ok := font.sfntGlyph(r)
		if !ok {
			gid = font.DefaultGlyph()
		}
		if isVariationSelector(r) {
			if i > 0 {
				if vg, ok := font.VariantGlyph(src[i-1], r); ok {
					g.Indices[glyphOf(i-1)] = vg
				}
			}
			gid = font.BlankGlyph()
		}
		gi := glyphOf(i)
		g.Indices[gi] = gid
		g.Clusters[i] = glyphOf(base)
		attr := GlyphAttr{
			ClusterStart: !mark,
			Diacritic:    mark,
			ZeroWidth:    mark || zeroWidthRune(src[i], a),
		}
		if !mark {
			attr.Justification = justifyClass(src[i], a)
		}
		g.Attrs[gi] = attr
	}
	return g, nil
}

// Place implements Engine.
func (e *BuiltinEngine) Place(g Glyphs, a ScriptAnalysis, font *Font, cache *ScriptCache) ([]float64, []GlyphOffset, error) {
	advances := make([]float64, g.Len())
	offsets := make([]GlyphOffset, g.Len())
	for i, gid := range g.Indices {
		if i < len(g.Attrs) && g.Attrs[i].ZeroWidth {
			continue
		}
		advances[i] = font.Advance(gid)
	}
	return advances, offsets, nil
}

// LogicalAttributes implements Engine.
func (e *BuiltinEngine) LogicalAttributes(text []rune, a ScriptAnalysis) []CharAttr {
	attrs := make([]CharAttr, len(text))
	if len(text) == 0 {
		return attrs
	}

	s := linebreak.NewScanner(text)
	for {
		pos, action, err := s.Next()
		if err != nil {
			break
		}
		if pos <= 0 || pos >= len(text) {
			continue
		}
		switch action {
		case linebreak.BreakDirect, linebreak.BreakIndirect, linebreak.BreakCombiningIndirect:
			attrs[pos].SoftBreak = true
		}
	}

	for i, r := range text {
		attrs[i].WhiteSpace = isBreakingSpace(r)
		attrs[i].CharStop = i == 0 || !isMark(r)
		attrs[i].WordStop = i == 0 || (isWordRune(r) && !isWordRune(text[i-1]))
		// A break after white space is always allowed.
		if i > 0 && isBreakingSpace(text[i-1]) && !isBreakingSpace(r) && !isMark(r) {
			attrs[i].SoftBreak = true
		}
	}
	return attrs
}

func isMark(r rune) bool {
	return unicode.In(r, unicode.Mn, unicode.Me) || r == 0x200D || isVariationSelector(r)
}

func isBreakingSpace(r rune) bool {
	switch r {
	case 0x00A0, 0x2007, 0x202F, 0xFEFF:
		return false
	}
	return unicode.IsSpace(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

var mirrorPairs = map[rune]rune{
	'(': ')', ')': '(',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
	'<': '>', '>': '<',
	'«': '»', '»': '«',
	'‹': '›', '›': '‹',
}

func mirror(r rune) rune {
	if m, ok := mirrorPairs[r]; ok {
		return m
	}
	return r
}
