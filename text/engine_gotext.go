package text

import (
	"sort"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/segmenter"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// GoTextEngine shapes with the HarfBuzz port of go-text/typesetting.
// It supports ligatures, kerning, mark positioning and the complex
// scripts HarfBuzz supports (Arabic, Indic, Thai, ...). Break attributes
// come from the UAX #14 / UAX #29 segmenter of the same module.
//
// GoTextEngine is not safe for concurrent use: the HarfBuzz shaper and
// the segmenter keep internal buffers.
type GoTextEngine struct {
	engineBase

	shaper    shaping.HarfbuzzShaper
	segmenter segmenter.Segmenter
	lang      language.Language
}

// EngineOption configures a GoTextEngine.
type EngineOption func(*GoTextEngine)

// WithLanguage sets the BCP 47 language used for language-specific shaping.
func WithLanguage(tag string) EngineOption {
	return func(e *GoTextEngine) {
		e.lang = language.NewLanguage(tag)
	}
}

// NewGoTextEngine creates a GoTextEngine. The language defaults to the
// process locale.
func NewGoTextEngine(opts ...EngineOption) *GoTextEngine {
	e := &GoTextEngine{lang: language.DefaultLanguage()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Shape implements Engine. The HarfBuzz positions are kept in cache for Place.
func (e *GoTextEngine) Shape(text []rune, a ScriptAnalysis, font *Font, maxGlyphs int, cache *ScriptCache) (Glyphs, error) {
	if len(text) == 0 {
		return Glyphs{}, nil
	}
	if err := checkScript(text, a, font); err != nil {
		return Glyphs{}, &ShapingError{Engine: "gotext", End: len(text), Err: err}
	}

	src := substituteDigits(text, a)
	rtl := a.IsRTL()
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	out := e.shaper.Shape(shaping.Input{
		Text:      src,
		RunStart:  0,
		RunEnd:    len(src),
		Direction: dir,
		Face:      font.face,
		Size:      fixed.Int26_6(font.size * 64),
		Script:    a.Script,
		Language:  e.lang,
	})

	n := len(out.Glyphs)
	if n > maxGlyphs {
		return Glyphs{}, ErrBufferTooSmall
	}
	if n == 0 {
		return Glyphs{}, &ShapingError{Engine: "gotext", End: len(text), Err: ErrScriptNotInFont}
	}

	g := Glyphs{
		Indices:  make([]GlyphID, n),
		Clusters: make([]int, len(text)),
		Attrs:    make([]GlyphAttr, n),
	}
	advances := make([]float64, n)
	offsets := make([]GlyphOffset, n)
	first := make(map[int]int, n)

	for i, gl := range out.Glyphs {
		c := gl.ClusterIndex
		start := i == 0 || out.Glyphs[i-1].ClusterIndex != c
		if rtl {
			start = i == n-1 || out.Glyphs[i+1].ClusterIndex != c
		}
		if start {
			first[c] = i
		}

		var r rune
		if c >= 0 && c < len(src) {
			r = src[c]
		}
		attr := GlyphAttr{
			ClusterStart: start,
			Diacritic:    !start && gl.XAdvance == 0,
			ZeroWidth:    zeroWidthRune(r, a),
		}
		if start {
			attr.Justification = justifyClass(r, a)
		}

		g.Indices[i] = GlyphID(gl.GlyphID)
		g.Attrs[i] = attr
		if !attr.ZeroWidth {
			advances[i] = fixedToFloat64(gl.XAdvance)
		}
		offsets[i] = GlyphOffset{
			DX: fixedToFloat64(gl.XOffset),
			DY: -fixedToFloat64(gl.YOffset),
		}
	}

	starts := make([]int, 0, len(first))
	for c := range first {
		starts = append(starts, c)
	}
	sort.Ints(starts)
	p := 0
	for j := range g.Clusters {
		for p+1 < len(starts) && starts[p+1] <= j {
			p++
		}
		g.Clusters[j] = first[starts[p]]
	}

	if cache != nil {
		cache.store(font, advances, offsets)
	}
	return g, nil
}

// Place implements Engine. Positions computed by Shape are reused when the
// glyph count still matches; otherwise nominal advances are used.
func (e *GoTextEngine) Place(g Glyphs, a ScriptAnalysis, font *Font, cache *ScriptCache) ([]float64, []GlyphOffset, error) {
	advances, offsets, ok := cache.placement(font, g.Len())
	if !ok {
		advances = make([]float64, g.Len())
		offsets = make([]GlyphOffset, g.Len())
		scale := font.scale()
		for i, gid := range g.Indices {
			advances[i] = float64(font.face.HorizontalAdvance(fontGID(gid))) * scale
		}
	}
	for i, attr := range g.Attrs {
		if attr.ZeroWidth {
			advances[i] = 0
		}
	}
	return advances, offsets, nil
}

// LogicalAttributes implements Engine.
func (e *GoTextEngine) LogicalAttributes(text []rune, a ScriptAnalysis) []CharAttr {
	attrs := make([]CharAttr, len(text))
	if len(text) == 0 {
		return attrs
	}
	e.segmenter.Init(text)

	lines := e.segmenter.LineIterator()
	for lines.Next() {
		if off := lines.Line().Offset; off > 0 && off < len(text) {
			attrs[off].SoftBreak = true
		}
	}
	graphemes := e.segmenter.GraphemeIterator()
	for graphemes.Next() {
		if off := graphemes.Grapheme().Offset; off < len(text) {
			attrs[off].CharStop = true
		}
	}
	words := e.segmenter.WordIterator()
	for words.Next() {
		if off := words.Word().Offset; off < len(text) {
			attrs[off].WordStop = true
		}
	}
	for i, r := range text {
		attrs[i].WhiteSpace = isBreakingSpace(r)
	}
	attrs[0].CharStop = true
	attrs[0].WordStop = true
	return attrs
}
