package text

import (
	"unicode"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/textlayout/surface"
)

// FontProperties selects a face within a family.
type FontProperties struct {
	Weight  font.Weight
	Style   font.Style
	Stretch font.Stretch
}

// DefaultProperties returns regular upright properties.
func DefaultProperties() FontProperties {
	return FontProperties{
		Weight:  font.WeightNormal,
		Style:   font.StyleNormal,
		Stretch: font.StretchNormal,
	}
}

func (p FontProperties) aspect() font.Aspect {
	return font.Aspect{Style: p.Style, Weight: p.Weight, Stretch: p.Stretch}
}

// Metrics holds pixel metrics of a Font. Distances are positive.
type Metrics struct {
	Ascent           float64
	Descent          float64
	CellHeight       float64
	LineGap          float64
	XHeight          float64
	AverageCharWidth float64
}

// Font is a FontSource at a pixel size.
//
// A Font carries a go-text face, which is not safe for concurrent use.
type Font struct {
	source  *FontSource
	size    float64
	metrics Metrics
	face    *font.Face
}

func newFont(s *FontSource, size float64) *Font {
	f := &Font{
		source: s,
		size:   size,
		face:   font.NewFace(s.gotext),
	}
	f.metrics = s.metrics(size)
	f.metrics.AverageCharWidth = f.averageCharWidth()
	return f
}

func (s *FontSource) metrics(ppem float64) Metrics {
	var buf sfnt.Buffer
	m, err := s.sfnt.Metrics(&buf, fixed.Int26_6(ppem*64), xfont.HintingNone)
	if err != nil {
		return Metrics{Ascent: ppem * 0.8, Descent: ppem * 0.2, CellHeight: ppem}
	}
	ascent := fixedToFloat64(m.Ascent)
	descent := fixedToFloat64(m.Descent)
	gap := fixedToFloat64(m.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return Metrics{
		Ascent:     ascent,
		Descent:    descent,
		CellHeight: ascent + descent,
		LineGap:    gap,
		XHeight:    fixedToFloat64(m.XHeight),
	}
}

// averageCharWidth is the mean advance of the lowercase Latin letters the
// font has, or half an em.
func (f *Font) averageCharWidth() float64 {
	var total float64
	n := 0
	for r := 'a'; r <= 'z'; r++ {
		gid, ok := f.sfntGlyph(r)
		if !ok {
			continue
		}
		total += f.Advance(gid)
		n++
	}
	if n == 0 {
		return f.size / 2
	}
	return total / float64(n)
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

// Source returns the font source.
func (f *Font) Source() *FontSource { return f.source }

// Size returns the size in pixels per em.
func (f *Font) Size() float64 { return f.size }

// Family returns the family name of the source.
func (f *Font) Family() string { return f.source.name }

// Metrics returns the pixel metrics.
func (f *Font) Metrics() Metrics { return f.metrics }

// HasGlyph reports whether the font maps r to a glyph.
func (f *Font) HasGlyph(r rune) bool { return f.source.HasGlyph(r) }

// GlyphIndex returns the nominal glyph of r, or the default glyph.
func (f *Font) GlyphIndex(r rune) GlyphID {
	gid, ok := f.source.gotext.NominalGlyph(r)
	if !ok {
		return f.DefaultGlyph()
	}
	return GlyphID(gid)
}

// VariantGlyph returns the glyph of the variation sequence base+selector.
func (f *Font) VariantGlyph(base, selector rune) (GlyphID, bool) {
	gid, ok := f.source.gotext.VariationGlyph(base, selector)
	return GlyphID(gid), ok
}

// DefaultGlyph returns the missing-glyph index.
func (f *Font) DefaultGlyph() GlyphID { return 0 }

// BlankGlyph returns a glyph without outline: the space glyph, or the
// default glyph when the font has no space.
func (f *Font) BlankGlyph() GlyphID {
	if gid, ok := f.sfntGlyph(' '); ok {
		return gid
	}
	return f.DefaultGlyph()
}

// sfntGlyph looks r up through x/image/font/sfnt.
func (f *Font) sfntGlyph(r rune) (GlyphID, bool) {
	var buf sfnt.Buffer
	idx, err := f.source.sfnt.GlyphIndex(&buf, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	return GlyphID(idx), true
}

// Advance returns the unhinted advance of a glyph in pixels.
func (f *Font) Advance(gid GlyphID) float64 {
	var buf sfnt.Buffer
	adv, err := f.source.sfnt.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), fixed.Int26_6(f.size*64), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat64(adv)
}

// Underline returns the underline offset below the baseline and its
// thickness, in pixels.
func (f *Font) Underline() (offset, thickness float64) {
	scale := f.scale()
	offset = -float64(f.face.LineMetric(font.UnderlinePosition)) * scale
	thickness = float64(f.face.LineMetric(font.UnderlineThickness)) * scale
	if thickness <= 0 {
		thickness = f.size / 14
	}
	if offset <= 0 {
		offset = f.metrics.Descent / 2
	}
	return offset, thickness
}

func fontGID(g GlyphID) font.GID { return font.GID(g) }

func (f *Font) scale() float64 {
	upem := f.source.gotext.Upem()
	if upem == 0 {
		return 0
	}
	return f.size / float64(upem)
}

// AppendGlyph appends the outline of gid to p with its origin at (x, y).
// Bitmap-only glyphs append nothing.
func (f *Font) AppendGlyph(p *surface.Path, gid GlyphID, x, y float64) {
	var segments []font.Segment
	switch data := f.face.GlyphData(fontGID(gid)).(type) {
	case font.GlyphOutline:
		segments = data.Segments
	case font.GlyphSVG:
		segments = data.Outline.Segments
	case font.GlyphBitmap:
		if data.Outline != nil {
			segments = data.Outline.Segments
		}
	}
	if len(segments) == 0 {
		return
	}

	scale := f.scale()
	pt := func(sp font.SegmentPoint) (float64, float64) {
		return x + float64(sp.X)*scale, y - float64(sp.Y)*scale
	}
	open := false
	for _, seg := range segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			p.MoveTo(pt(seg.Args[0]))
			open = true
		case ot.SegmentOpLineTo:
			p.LineTo(pt(seg.Args[0]))
		case ot.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			ex, ey := pt(seg.Args[1])
			p.QuadTo(cx, cy, ex, ey)
		case ot.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			p.CubicTo(c1x, c1y, c2x, c2y, ex, ey)
		}
	}
	if open {
		p.Close()
	}
}

// covers reports whether f can display r. Characters that never need a
// glyph of their own count as covered.
func covers(f *Font, r rune) bool {
	return isIgnorable(r) || f.HasGlyph(r)
}

func isIgnorable(r rune) bool {
	switch {
	case r == '\t', r == 0x200B, r == 0x200C, r == 0x200D, r == 0xFEFF:
		return true
	case isVariationSelector(r):
		return true
	case r >= 0x206A && r <= 0x206F:
		return true
	}
	return unicode.IsControl(r)
}

func isVariationSelector(r rune) bool {
	return (r >= 0xFE00 && r <= 0xFE0F) || (r >= 0xE0100 && r <= 0xE01EF)
}

// IsVariationSelector reports whether r is a variation selector.
func IsVariationSelector(r rune) bool { return isVariationSelector(r) }
