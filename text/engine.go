package text

// MaxGlyphsPerCall is the largest glyph count a single Shape call can return.
const MaxGlyphsPerCall = 65535

// Engine is a shaping engine: it itemizes text into runs of uniform script
// and bidi level, shapes runs into glyphs, places them and answers the
// caret and break queries of shaped runs.
//
// An Engine is used from one goroutine at a time.
type Engine interface {
	// Itemize returns the script items of text. It fails with
	// ErrBufferTooSmall when more than maxItems items are needed.
	Itemize(text []rune, ctl ItemizeControl, state ItemizeState, maxItems int) ([]ScriptItem, error)

	// Shape converts text into glyphs of font. It fails with
	// ErrScriptNotInFont when font cannot render the script of a, and
	// with ErrBufferTooSmall when more than maxGlyphs glyphs result.
	Shape(text []rune, a ScriptAnalysis, font *Font, maxGlyphs int, cache *ScriptCache) (Glyphs, error)

	// Place computes glyph advances and offsets of a shaped run.
	Place(g Glyphs, a ScriptAnalysis, font *Font, cache *ScriptCache) ([]float64, []GlyphOffset, error)

	// LogicalWidths returns the width of every character of a shaped run.
	LogicalWidths(g Glyphs, advances []float64, a ScriptAnalysis) []float64

	// LogicalAttributes returns the break attributes of every character.
	LogicalAttributes(text []rune, a ScriptAnalysis) []CharAttr

	// CPToX returns the distance from the left edge of a run to the leading
	// or trailing edge of character cp.
	CPToX(cp int, trailing bool, g Glyphs, advances []float64, a ScriptAnalysis) float64

	// XToCP returns the character at x and whether x is nearer its trailing edge.
	XToCP(x float64, g Glyphs, advances []float64, a ScriptAnalysis) (int, bool)

	// Justify returns advances widened or narrowed to targetWidth.
	Justify(attrs []GlyphAttr, advances []float64, targetWidth float64) []float64

	// ReorderVisual returns the visual-to-logical permutation of the levels.
	ReorderVisual(levels []uint8) []int
}

// ScriptCache carries engine state of one glyph store from Shape to Place.
// The zero value is ready to use.
type ScriptCache struct {
	font      *Font
	advances  []float64
	offsets   []GlyphOffset
	numGlyphs int
}

func (c *ScriptCache) store(f *Font, advances []float64, offsets []GlyphOffset) {
	c.font = f
	c.advances = advances
	c.offsets = offsets
	c.numGlyphs = len(advances)
}

// placement returns the positions stored by the last Shape of f with n glyphs.
func (c *ScriptCache) placement(f *Font, n int) ([]float64, []GlyphOffset, bool) {
	if c == nil || c.font != f || c.numGlyphs != n {
		return nil, nil, false
	}
	adv := make([]float64, n)
	copy(adv, c.advances)
	off := make([]GlyphOffset, n)
	copy(off, c.offsets)
	return adv, off, true
}

// engineBase implements the Engine methods that do not depend on the
// shaping backend.
type engineBase struct{}

func (engineBase) Itemize(text []rune, ctl ItemizeControl, state ItemizeState, maxItems int) ([]ScriptItem, error) {
	return itemize(text, ctl, state, maxItems)
}

func (engineBase) LogicalWidths(g Glyphs, advances []float64, a ScriptAnalysis) []float64 {
	return logicalWidths(g, advances, a.IsRTL())
}

func (engineBase) CPToX(cp int, trailing bool, g Glyphs, advances []float64, a ScriptAnalysis) float64 {
	return cpToX(cp, trailing, g, advances, a.IsRTL())
}

func (engineBase) XToCP(x float64, g Glyphs, advances []float64, a ScriptAnalysis) (int, bool) {
	return xToCP(x, g, advances, a.IsRTL())
}

func (engineBase) Justify(attrs []GlyphAttr, advances []float64, targetWidth float64) []float64 {
	return justify(attrs, advances, targetWidth)
}

func (engineBase) ReorderVisual(levels []uint8) []int {
	return ReorderVisual(levels)
}

// checkScript fails with ErrScriptNotInFont when a strong character of text
// has no glyph in font. ScriptUndefined always passes.
func checkScript(text []rune, a ScriptAnalysis, font *Font) error {
	if a.Script == ScriptUndefined {
		return nil
	}
	for _, r := range text {
		if covers(font, r) {
			continue
		}
		if a.Script.Strong() {
			return ErrScriptNotInFont
		}
	}
	return nil
}

// zeroWidthRune reports characters that are placed as zero-width glyphs.
func zeroWidthRune(r rune, a ScriptAnalysis) bool {
	switch {
	case r == 0x200B, r == 0x200C, r == 0x200D, r == 0xFEFF:
		return true
	case isVariationSelector(r):
		return true
	case r >= 0x206A && r <= 0x206F:
		return a.IgnoreFormatCharacters
	}
	return false
}

func justifyClass(r rune, a ScriptAnalysis) JustifyClass {
	switch {
	case r == ' ' || r == 0x3000 || r == '\t':
		return JustifyBlank
	case isArabicScript(a.Script):
		return JustifyKashida
	default:
		return JustifyCharacter
	}
}
