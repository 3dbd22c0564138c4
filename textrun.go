package textlayout

import (
	"errors"
	"image/color"
	"math"
	"slices"

	"github.com/gogpu/textlayout/surface"
	"github.com/gogpu/textlayout/text"
)

// maxGlyphsPerCall is the glyph ceiling of one Engine.Shape call.
var maxGlyphsPerCall = text.MaxGlyphsPerCall

// estimateGlyphs returns the glyph capacity first offered for length
// characters.
func estimateGlyphs(length int) int { return length*3/2 + 16 }

// maxRunLength returns the longest run whose estimate fits the ceiling.
func maxRunLength() int { return max((maxGlyphsPerCall-16)*2/3, 1) }

// glyphStore is the shaped output of one Shape call. Runs split from the
// shaped run share it; each keeps its own character and glyph range.
type glyphStore struct {
	// begin is the line offset of the first character of the store.
	begin  int
	engine text.Engine

	indices  []text.GlyphID
	clusters []int // one per character, store-wide glyph indices
	attrs    []text.GlyphAttr

	advances  []float64
	justified []float64 // nil until a run of the store is justified
	offsets   []text.GlyphOffset

	cache      text.ScriptCache
	sharers    int
	positioned bool
}

func (s *glyphStore) set(g text.Glyphs) {
	s.indices = g.Indices
	s.clusters = g.Clusters
	s.attrs = g.Attrs
}

// setDefault fills the store with one default glyph per character.
func (s *glyphStore) setDefault(n int, gid text.GlyphID, rtl bool) {
	s.indices = make([]text.GlyphID, n)
	s.clusters = make([]int, n)
	s.attrs = make([]text.GlyphAttr, n)
	for i := range n {
		s.indices[i] = gid
		s.clusters[i] = i
		if rtl {
			s.clusters[i] = n - 1 - i
		}
		s.attrs[i] = text.GlyphAttr{ClusterStart: true, Justification: text.JustifyCharacter}
	}
}

func (s *glyphStore) glyphs() text.Glyphs {
	return text.Glyphs{Indices: s.indices, Clusters: s.clusters, Attrs: s.attrs}
}

// effectiveAdvances returns the justified advances if any, else the plain ones.
func (s *glyphStore) effectiveAdvances() []float64 {
	if s.justified != nil {
		return s.justified
	}
	return s.advances
}

// TextRun is a character range of a line with one script, one bidi level
// and one font: the unit the engine shapes.
type TextRun struct {
	chars      Range
	analysis   text.ScriptAnalysis
	font       *text.Font
	glyphs     *glyphStore
	glyphRange Range
	tab        bool
}

// NewTextRun creates an unshaped run over chars.
func NewTextRun(chars Range, analysis text.ScriptAnalysis, font *text.Font) (*TextRun, error) {
	if font == nil {
		return nil, invalidArgument("text run %v has no font", chars)
	}
	if chars.Begin < 0 || chars.End < chars.Begin {
		return nil, invalidArgument("text run range %v", chars)
	}
	return &TextRun{
		chars:    chars,
		analysis: analysis,
		font:     font,
		glyphs:   &glyphStore{begin: chars.Begin, sharers: 1},
	}, nil
}

// Beginning returns the first character offset.
func (r *TextRun) Beginning() int { return r.chars.Begin }

// End returns the offset after the last character.
func (r *TextRun) End() int { return r.chars.End }

// Len returns the number of characters.
func (r *TextRun) Len() int { return r.chars.Len() }

// Range returns the character range.
func (r *TextRun) Range() Range { return r.chars }

// Analysis returns the script analysis the run was shaped with.
func (r *TextRun) Analysis() text.ScriptAnalysis { return r.analysis }

// Font returns the font of the run.
func (r *TextRun) Font() *text.Font { return r.font }

// BidiLevel returns the bidi embedding level.
func (r *TextRun) BidiLevel() uint8 { return r.analysis.Level }

// IsRTL reports whether the run is laid out right-to-left.
func (r *TextRun) IsRTL() bool { return r.analysis.IsRTL() }

// NumberOfGlyphs returns the number of glyphs the run covers.
func (r *TextRun) NumberOfGlyphs() int { return r.glyphRange.Len() }

// IsTab reports whether the run is a lone tab.
func (r *TextRun) IsTab() bool { return r.tab }

// sharesGlyphsWith reports whether r and o were split from one shaped run.
func (r *TextRun) sharesGlyphsWith(o *TextRun) bool { return r.glyphs == o.glyphs }

// storeRange converts a line character range to the store's glyph range.
func (r *TextRun) storeRange(rng Range) (int, int) {
	s := r.glyphs
	return text.GlyphRange(s.clusters, len(s.indices), r.IsRTL(), rng.Begin-s.begin, rng.End-s.begin)
}

// glyphRangeOf returns the glyphs of the run that render rng.
func (r *TextRun) glyphRangeOf(rng Range) (int, int) {
	rng = rng.Intersect(r.chars)
	if rng.Empty() {
		return r.glyphRange.Begin, r.glyphRange.Begin
	}
	b, e := r.storeRange(rng)
	return max(b, r.glyphRange.Begin), min(e, r.glyphRange.End)
}

// clusterBoundary reports whether at starts a glyph cluster.
func (r *TextRun) clusterBoundary(at int) bool {
	s := r.glyphs
	i := at - s.begin
	if s.clusters == nil || i <= 0 || i >= len(s.clusters) {
		return true
	}
	return s.clusters[i] != s.clusters[i-1]
}

// breakAt truncates r to [Beginning, at) and returns the run for
// [at, End). Both share the glyph store.
func (r *TextRun) breakAt(at int) (*TextRun, error) {
	if at <= r.chars.Begin || at >= r.chars.End {
		return nil, badPosition("break offset", at, r.chars.End)
	}
	if !r.clusterBoundary(at) {
		return nil, invalidArgument("offset %d splits a glyph cluster", at)
	}
	trailing := &TextRun{
		chars:    Range{Begin: at, End: r.chars.End},
		analysis: r.analysis,
		font:     r.font,
		glyphs:   r.glyphs,
	}
	r.glyphs.sharers++
	r.chars.End = at

	b, e := r.storeRange(r.chars)
	r.glyphRange = Range{Begin: b, End: e}
	b, e = trailing.storeRange(trailing.chars)
	trailing.glyphRange = Range{Begin: b, End: e}
	return trailing, nil
}

// splitIfTooLong splits an unshaped run whose glyph estimate exceeds the
// engine ceiling. It prefers the latest character stop next to white
// space, then the latest character stop, then the limit itself. It returns
// the trailing run, or nil when r is short enough.
func (r *TextRun) splitIfTooLong(line []rune, engine text.Engine) *TextRun {
	limit := maxRunLength()
	if estimateGlyphs(r.Len()) <= maxGlyphsPerCall || limit >= r.Len() {
		return nil
	}
	attrs := engine.LogicalAttributes(line[r.chars.Begin:r.chars.End], r.analysis)

	split := -1
	for i := limit; i > 0 && split < 0; i-- {
		if attrs[i].CharStop && (attrs[i].WhiteSpace || attrs[i-1].WhiteSpace) {
			split = i
		}
	}
	for i := limit; i > 0 && split < 0; i-- {
		if attrs[i].CharStop {
			split = i
		}
	}
	if split < 0 {
		split = limit
	}

	at := r.chars.Begin + split
	trailing := &TextRun{
		chars:    Range{Begin: at, End: r.chars.End},
		analysis: r.analysis,
		font:     r.font,
		glyphs:   &glyphStore{begin: at, sharers: 1},
	}
	r.chars.End = at
	return trailing
}

// shape generates the glyphs of r. A font without the script is retried
// with ScriptUndefined; a failing engine yields default glyphs.
func (r *TextRun) shape(line []rune, engine text.Engine) {
	s := r.glyphs
	s.engine = engine
	chars := line[r.chars.Begin:r.chars.End]
	capacity := min(estimateGlyphs(len(chars)), maxGlyphsPerCall)
	analysis := r.analysis
	retried := false
	for {
		g, err := engine.Shape(chars, analysis, r.font, capacity, &s.cache)
		switch {
		case err == nil:
			s.set(g)
		case errors.Is(err, text.ErrBufferTooSmall) && capacity < maxGlyphsPerCall:
			capacity = min(capacity*2, maxGlyphsPerCall)
			continue
		case errors.Is(err, text.ErrScriptNotInFont) && !retried:
			slogger().Debug("script not in font, shaping without script",
				"font", r.font.Family(), "begin", r.chars.Begin, "end", r.chars.End)
			analysis.Script = text.ScriptUndefined
			retried = true
			continue
		default:
			slogger().Warn("shaping failed, using default glyphs",
				"font", r.font.Family(), "begin", r.chars.Begin, "end", r.chars.End, "err", err)
			s.setDefault(len(chars), r.font.DefaultGlyph(), analysis.IsRTL())
		}
		r.analysis = analysis
		r.glyphRange = Range{Begin: 0, End: len(s.indices)}
		return
	}
}

// positionGlyphs computes advances and offsets. It runs once per store,
// before the store is shared. Letter spacing of the styled runs in styles
// is added to every cluster.
func (r *TextRun) positionGlyphs(styles []StyledRun) error {
	s := r.glyphs
	if s.sharers != 1 || s.positioned {
		return invalidArgument("glyphs of run %v are shared or already positioned", r.chars)
	}
	if s.engine == nil {
		return invalidArgument("run %v is not shaped", r.chars)
	}
	adv, off, err := s.engine.Place(s.glyphs(), r.analysis, r.font, &s.cache)
	if err != nil || len(adv) != len(s.indices) || len(off) != len(s.indices) {
		slogger().Debug("placement failed, using nominal advances", "begin", r.chars.Begin, "err", err)
		adv = make([]float64, len(s.indices))
		off = make([]text.GlyphOffset, len(s.indices))
		for i, gid := range s.indices {
			if !s.attrs[i].ZeroWidth {
				adv[i] = r.font.Advance(gid)
			}
		}
	}
	s.advances, s.offsets = adv, off
	s.justified = nil
	s.positioned = true

	for seg, style := range styledSegments(styles, r.chars) {
		if style == nil || style.LetterSpacing == 0 {
			continue
		}
		b, e := r.glyphRangeOf(seg)
		for k := b; k < e; k++ {
			if s.attrs[k].ClusterStart {
				s.advances[k] += style.LetterSpacing
			}
		}
	}
	return nil
}

// expandTabCharacters sets the advance of a lone tab run to the distance
// from x to the next tab stop, at most maxWidth. Other runs are left
// unchanged.
func (r *TextRun) expandTabCharacters(x, tabWidth, maxWidth float64) error {
	if !r.tab || r.Len() != 1 {
		return nil
	}
	if maxWidth <= 0 || tabWidth <= 0 {
		return invalidArgument("tab expansion width %g, max %g", tabWidth, maxWidth)
	}
	s := r.glyphs
	if s.sharers != 1 || len(s.advances) != 1 {
		return invalidArgument("tab run %v does not own one glyph", r.chars)
	}
	m := math.Mod(x, tabWidth)
	if m < 0 {
		m += tabWidth
	}
	s.advances[0] = min(tabWidth-m, maxWidth)
	s.justified = nil
	return nil
}

// view returns the glyphs and advances of r with run-relative clusters.
func (r *TextRun) view() (text.Glyphs, []float64) {
	s := r.glyphs
	gb, ge := r.glyphRange.Begin, r.glyphRange.End
	cb, ce := r.chars.Begin-s.begin, r.chars.End-s.begin
	clusters := make([]int, ce-cb)
	for i := range clusters {
		clusters[i] = s.clusters[cb+i] - gb
	}
	g := text.Glyphs{Indices: s.indices[gb:ge], Clusters: clusters, Attrs: s.attrs[gb:ge]}
	return g, r.advances()
}

// advances returns the effective advances of the glyphs of r.
func (r *TextRun) advances() []float64 {
	a := r.glyphs.effectiveAdvances()
	if len(a) < r.glyphRange.End {
		return make([]float64, r.glyphRange.Len())
	}
	return a[r.glyphRange.Begin:r.glyphRange.End]
}

// x returns the distance from the left edge of r to an edge of at.
func (r *TextRun) x(at int, trailing bool) float64 {
	g, adv := r.view()
	return r.glyphs.engine.CPToX(at-r.chars.Begin, trailing, g, adv, r.analysis)
}

// X returns the distance from the left edge of the run to the leading (or
// trailing) edge of the character at.
func (r *TextRun) X(at int, trailing bool) (float64, error) {
	if at < r.chars.Begin || at > r.chars.End {
		return 0, badPosition("offset", at, r.chars.End)
	}
	if r.glyphs.engine == nil {
		return 0, invalidArgument("run %v is not shaped", r.chars)
	}
	return r.x(at, trailing), nil
}

// HitTest returns the character at distance x from the left edge of the
// run and whether x is nearer its trailing edge.
func (r *TextRun) HitTest(x float64) (int, bool) {
	if r.glyphs.engine == nil || r.Len() == 0 {
		return r.chars.Begin, false
	}
	g, adv := r.view()
	cp, trailing := r.glyphs.engine.XToCP(x, g, adv, r.analysis)
	return r.chars.Begin + cp, trailing
}

// TotalWidth returns the sum of the (justified, if any) advances.
func (r *TextRun) TotalWidth() float64 {
	var w float64
	for _, a := range r.advances() {
		w += a
	}
	return w
}

// BlackBoxBounds returns the box of the characters of rng in the run,
// relative to the run's origin on its baseline.
func (r *TextRun) BlackBoxBounds(rng Range) surface.Rect {
	rng = rng.Intersect(r.chars)
	m := r.font.Metrics()
	var x1, x2 float64
	if r.glyphs.engine != nil {
		x1 = r.x(rng.Begin, false)
		x2 = r.x(rng.End, false)
	}
	return surface.Rect{
		MinX: min(x1, x2),
		MinY: -m.Ascent,
		MaxX: max(x1, x2),
		MaxY: -m.Ascent + m.CellHeight,
	}
}

// justify widens or narrows the glyphs of r to targetWidth. The glyphs
// of hang keep their advances.
func (r *TextRun) justify(targetWidth float64, hang Range) {
	if targetWidth == r.TotalWidth() || r.glyphRange.Empty() {
		return
	}
	s := r.glyphs
	gb, ge := r.glyphRange.Begin, r.glyphRange.End
	attrs := s.attrs[gb:ge]
	if hb, he := r.glyphRangeOf(hang); hb < he {
		attrs = slices.Clone(attrs)
		for i := hb; i < he; i++ {
			attrs[i-gb].Justification = text.JustifyNone
		}
	}
	adv := s.engine.Justify(attrs, s.advances[gb:ge], targetWidth)
	if s.justified == nil {
		s.justified = slices.Clone(s.advances)
	}
	copy(s.justified[gb:ge], adv)
}

// drawBackground fills the black box of rng with c. origin is the run's
// origin on the baseline.
func (r *TextRun) drawBackground(dst surface.Surface, rng Range, origin surface.Point, c color.Color) {
	rng = rng.Intersect(r.chars)
	if rng.Empty() || c == nil {
		return
	}
	dst.FillRect(r.BlackBoxBounds(rng).Translate(origin.X, origin.Y), c)
}

// drawForeground fills the glyph outlines of rng with c.
func (r *TextRun) drawForeground(dst surface.Surface, rng Range, origin surface.Point, c color.Color) {
	rng = rng.Intersect(r.chars)
	if rng.Empty() || c == nil || r.tab {
		return
	}
	b, e := r.glyphRangeOf(rng)
	if b >= e {
		return
	}
	s := r.glyphs
	adv := s.effectiveAdvances()
	path := surface.NewPath()
	x := origin.X
	for k := r.glyphRange.Begin; k < e; k++ {
		if k >= b {
			off := s.offsets[k]
			r.font.AppendGlyph(path, s.indices[k], x+off.DX, origin.Y+off.DY)
		}
		x += adv[k]
	}
	dst.Fill(path, surface.FillStyle{Color: c})
}

// mergeScriptsAndStyles intersects the script items with the styled runs
// of line and refines the result by font fallback, tabs and the run length
// ceiling. It returns the runs in logical order and the snapshot of the
// styled runs, every style resolved against def.
func mergeScriptsAndStyles(line []rune, items []text.ScriptItem, styles []StyledRun, def *RunStyle,
	fonts text.FontResolver, engine text.Engine, primary *text.Font,
) ([]*TextRun, []StyledRun, error) {
	n := len(line)
	snapshot := normalizeStyles(styles, n, def)
	if n == 0 {
		return nil, snapshot, nil
	}
	if len(items) == 0 || items[0].Offset != 0 {
		return nil, nil, invalidArgument("script items do not start at 0")
	}

	runs := make([]*TextRun, 0, len(items)+len(snapshot))
	resolved := make(map[*RunStyle]*text.Font)
	var stops []text.CharAttr
	stopsItem := -1
	si, ri := 0, 0
	for pos := 0; pos < n; {
		for si+1 < len(items) && items[si+1].Offset <= pos {
			si++
		}
		for ri+1 < len(snapshot) && snapshot[ri+1].Column <= pos {
			ri++
		}
		item := items[si]
		itemEnd := n
		if si+1 < len(items) {
			itemEnd = items[si+1].Offset
		}
		end := itemEnd
		if ri+1 < len(snapshot) {
			end = min(end, snapshot[ri+1].Column)
		}

		tab := line[pos] == '\t'
		if tab {
			end = pos + 1
		} else if i := slices.Index(line[pos:end], '\t'); i > 0 {
			end = pos + i
		}

		style := snapshot[ri].Style
		font, ok := resolved[style]
		if !ok {
			f, err := fonts.Resolve(style.fontRequest())
			if err != nil {
				if primary == nil {
					return nil, nil, err
				}
				slogger().Debug("font not resolved, using primary font", "family", style.FontFamily, "err", err)
				f = primary
			}
			font = f
			resolved[style] = f
		}

		if !tab {
			// Consecutive fallback spans that resolve to the same font
			// stay in one run.
			var chosen *text.Font
			q := pos
			for q < end {
				f, m := fonts.Fallback(font, item.Analysis.Script, line[q:end])
				if m > 0 && m < end-q {
					if stopsItem != si {
						stops = engine.LogicalAttributes(line[item.Offset:itemEnd], item.Analysis)
						stopsItem = si
					}
					m = snapToCharStop(stops, q-item.Offset, q+m-item.Offset) - (q - item.Offset)
				}
				if f == nil {
					f = font
				}
				if chosen != nil && f != chosen {
					break
				}
				chosen = f
				q += min(max(m, 1), end-q)
			}
			font, end = chosen, q
		}

		run, err := NewTextRun(Range{Begin: pos, End: end}, item.Analysis, font)
		if err != nil {
			return nil, nil, err
		}
		run.tab = tab
		runs = append(runs, run)
		for t := run.splitIfTooLong(line, engine); t != nil; t = t.splitIfTooLong(line, engine) {
			runs = append(runs, t)
		}
		pos = end
	}
	return runs, snapshot, nil
}

// snapToCharStop moves at back to the closest character stop after from,
// or forward when there is none.
func snapToCharStop(stops []text.CharAttr, from, at int) int {
	if at >= len(stops) || stops[at].CharStop {
		return at
	}
	for p := at - 1; p > from; p-- {
		if stops[p].CharStop {
			return p
		}
	}
	for p := at + 1; p < len(stops); p++ {
		if stops[p].CharStop {
			return p
		}
	}
	return len(stops)
}

// normalizeStyles returns styles ordered by strictly increasing column,
// starting at 0, within [0, n), every style resolved against def.
func normalizeStyles(styles []StyledRun, n int, def *RunStyle) []StyledRun {
	base := def.inherit(nil)
	out := make([]StyledRun, 0, len(styles)+1)
	for _, s := range styles {
		col := max(s.Column, 0)
		if col >= n && !(n == 0 && col == 0) {
			break
		}
		r := StyledRun{Column: col, Style: s.Style.inherit(base)}
		if len(out) > 0 && out[len(out)-1].Column >= col {
			out[len(out)-1] = r
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 || out[0].Column > 0 {
		out = slices.Insert(out, 0, StyledRun{Column: 0, Style: base})
	}
	return out
}
