package textlayout

import (
	"errors"
	"image/color"
	"iter"
	"math"
	"slices"
	"sort"

	"github.com/gogpu/textlayout/surface"
	"github.com/gogpu/textlayout/text"
)

// noWrap is the wrap width of lines that are not wrapped.
const noWrap = -1.0

// LayoutContext bundles the collaborators a LineLayout is built with.
type LayoutContext struct {
	Document     Document
	Presentation Presentation
	Engine       text.Engine
	Fonts        text.FontResolver
	// Environment may be nil; the default environment is used then.
	Environment *Environment
	// PrimaryFont is the document-wide default font. Line pitch, tab
	// width and the wrap indicator margin derive from it.
	PrimaryFont *text.Font
	// LayoutWidth is the width lines are wrapped to; non-positive means
	// unbounded.
	LayoutWidth float64
}

func (c *LayoutContext) check() error {
	switch {
	case c == nil:
		return invalidArgument("nil layout context")
	case c.Document == nil:
		return invalidArgument("layout context has no document")
	case c.Presentation == nil:
		return invalidArgument("layout context has no presentation")
	case c.Engine == nil:
		return invalidArgument("layout context has no shaping engine")
	case c.Fonts == nil:
		return invalidArgument("layout context has no font resolver")
	case c.PrimaryFont == nil:
		return invalidArgument("layout context has no primary font")
	}
	if c.Environment == nil {
		c.Environment = DefaultEnvironment()
	}
	return nil
}

// tabWidth returns the tab stop distance of style in pixels.
func (c *LayoutContext) tabWidth(style *LineStyle) float64 {
	if style.TabWidth > 0 {
		return style.TabWidth
	}
	m := c.PrimaryFont.Metrics()
	w := float64(c.Environment.TabWidth()) * m.AverageCharWidth
	if w <= 0 {
		w = c.PrimaryFont.Size()
	}
	return w
}

// lineStyle resolves the style of a line against the presentation default
// and the environment.
func (c *LayoutContext) lineStyle(line int) LineStyle {
	st := c.Presentation.LineStyle(line)
	if st == nil {
		st = c.Presentation.DefaultLineStyle()
	}
	var out LineStyle
	if st != nil {
		out = *st
	}
	if out.ReadingDirection == InheritDirection {
		out.ReadingDirection = c.Environment.ReadingDirection()
	}
	return out
}

// LineLayout is the shaped, wrapped and visually ordered layout of one
// logical line. It is immutable once built, except for its line number.
//
// Coordinates are relative to the top-left corner of the line. Subline s
// spans [s*pitch, (s+1)*pitch) vertically with its baseline at
// s*pitch + ascent of the primary font.
type LineLayout struct {
	ctx        *LayoutContext
	lineNumber int
	text       []rune
	style      LineStyle
	baseLevel  uint8

	runs             []*TextRun // visual order within each subline
	styles           []StyledRun
	sublineFirstRuns []int
	sublineOffsets   []int

	wrapWidth           float64
	longestSublineWidth float64 // negative when stale

	ascent float64
	pitch  float64
}

// NewLineLayout builds the layout of line.
func NewLineLayout(ctx *LayoutContext, line int) (*LineLayout, error) {
	if err := ctx.check(); err != nil {
		return nil, err
	}
	chars, err := ctx.Document.Line(line)
	if err != nil {
		return nil, err
	}
	m := ctx.PrimaryFont.Metrics()
	l := &LineLayout{
		ctx:                 ctx,
		lineNumber:          line,
		text:                chars,
		style:               ctx.lineStyle(line),
		wrapWidth:           noWrap,
		longestSublineWidth: -1,
		ascent:              m.Ascent,
		pitch:               m.CellHeight + m.LineGap,
	}
	if l.style.ReadingDirection == RightToLeft {
		l.baseLevel = 1
	}
	def := ctx.Presentation.DefaultRunStyle()

	if len(chars) == 0 {
		l.styles = normalizeStyles(nil, 0, def)
		l.sublineFirstRuns = []int{0}
		l.sublineOffsets = []int{0}
		l.longestSublineWidth = 0
		return l, nil
	}

	l.wrapWidth = l.computeWrapWidth()
	items := l.itemize()
	runs, styles, err := mergeScriptsAndStyles(chars, items, ctx.Presentation.StyledRuns(line), def,
		ctx.Fonts, ctx.Engine, ctx.PrimaryFont)
	if err != nil {
		return nil, err
	}
	l.styles = styles

	for _, r := range runs {
		r.shape(chars, ctx.Engine)
	}
	substituteGlyphs(chars, runs)
	for _, r := range runs {
		if err := r.positionGlyphs(styles); err != nil {
			return nil, err
		}
	}

	if l.wrapWidth == noWrap {
		l.runs = runs
		l.sublineFirstRuns = []int{0}
		if err := l.expandTabsWithoutWrapping(); err != nil {
			return nil, err
		}
	} else {
		l.runs, l.sublineFirstRuns, err = l.wrap(runs)
		if err != nil {
			return nil, err
		}
	}
	l.sublineOffsets = make([]int, len(l.sublineFirstRuns))
	for s := range l.sublineFirstRuns {
		l.sublineOffsets[s] = l.runs[l.sublineFirstRuns[s]].Beginning()
	}

	l.reorder()
	if l.style.Alignment == AlignJustify && l.wrapWidth != noWrap {
		l.justify()
	}
	return l, nil
}

// computeWrapWidth returns the width available to the sublines, or noWrap.
func (l *LineLayout) computeWrapWidth() float64 {
	if !l.style.Wrap.Wraps() || l.ctx.LayoutWidth <= 0 {
		return noWrap
	}
	w := l.ctx.LayoutWidth
	if l.style.Wrap.ShowIndicator {
		w -= l.ctx.PrimaryFont.Metrics().AverageCharWidth
	}
	return max(w, 1)
}

// itemize splits the line into script items, doubling the capacity on
// ErrBufferTooSmall. An engine failure yields one unshaped item.
func (l *LineLayout) itemize() []text.ScriptItem {
	env := l.ctx.Environment
	ctl := text.ItemizeControl{
		BaseLevel:                         l.baseLevel,
		InhibitSymmetricSwapping:          l.style.InhibitSymmetricSwapping,
		DisableDeprecatedFormatCharacters: l.style.DisableDeprecatedFormatCharacters,
		NationalZero:                      env.NationalZero(),
	}
	var state text.ItemizeState
	text.ApplyDigitSubstitution(env.digitSubstitution(l.style.NumberSubstitution), &ctl, &state)

	capacity := max(len(l.text)/4, 2)
	for {
		items, err := l.ctx.Engine.Itemize(l.text, ctl, state, capacity)
		if err == nil && len(items) > 0 {
			return items
		}
		if errors.Is(err, text.ErrBufferTooSmall) && capacity <= len(l.text) {
			capacity *= 2
			continue
		}
		slogger().Debug("itemization failed, using one item", "line", l.lineNumber, "err", err)
		return []text.ScriptItem{{Analysis: text.ScriptAnalysis{Script: text.ScriptUndefined, Level: l.baseLevel}}}
	}
}

// substituteGlyphs resolves variation sequences whose selector starts a
// run: the base glyph at the end of the previous run becomes the variant
// glyph, and the selector glyphs are blanked.
func substituteGlyphs(line []rune, runs []*TextRun) {
	for i := 1; i < len(runs); i++ {
		sel := runs[i]
		p := sel.Beginning()
		if !text.IsVariationSelector(line[p]) {
			continue
		}
		base := runs[i-1]
		if base.End() == p {
			bs := base.glyphs
			if vg, ok := base.font.VariantGlyph(line[p-1], line[p]); ok && len(bs.clusters) > 0 {
				bs.indices[bs.clusters[p-1-bs.begin]] = vg
			}
		}
		ss := sel.glyphs
		b, e := sel.storeRange(Range{Begin: p, End: p + 1})
		blank := sel.font.BlankGlyph()
		for k := b; k < e; k++ {
			ss.indices[k] = blank
			ss.attrs[k].ZeroWidth = true
		}
	}
}

// expandTabsWithoutWrapping expands tabs from the left edge of an
// unwrapped LTR line, or from the right edge of an RTL line.
func (l *LineLayout) expandTabsWithoutWrapping() error {
	tabWidth := l.ctx.tabWidth(&l.style)
	var x float64
	for i := range l.runs {
		r := l.runs[i]
		if l.baseLevel&1 == 1 {
			r = l.runs[len(l.runs)-1-i]
		}
		if err := r.expandTabCharacters(x, tabWidth, math.MaxFloat64); err != nil {
			return err
		}
		x += r.TotalWidth()
	}
	return nil
}

// wrap breaks the logically ordered runs into sublines no wider than the
// wrap width. Runs are split at break opportunities; a word wider than
// a subline is split at a cluster boundary. It returns the new run list
// and the index of the first run of every subline.
func (l *LineLayout) wrap(runs []*TextRun) ([]*TextRun, []int, error) {
	engine := l.ctx.Engine
	tabWidth := l.ctx.tabWidth(&l.style)
	out := make([]*TextRun, 0, len(runs)+4)
	firsts := []int{0}
	sublineStart := 0
	var x1 float64

	for _, run := range runs {
		if run.tab {
			if x1 >= l.wrapWidth && len(out) > firsts[len(firsts)-1] {
				firsts = append(firsts, len(out))
				sublineStart = run.Beginning()
				x1 = 0
			}
			if err := run.expandTabCharacters(x1, tabWidth, l.wrapWidth-x1); err != nil {
				return nil, nil, err
			}
			out = append(out, run)
			x1 += run.TotalWidth()
			continue
		}

		base := run.Beginning()
		g, adv := run.view()
		widths := engine.LogicalWidths(g, adv, run.analysis)
		attrs := engine.LogicalAttributes(l.text[base:run.End()], run.analysis)
		x := x1
		from := base
	scan:
		for {
			lastBreak, lastStop := -1, -1
			for j := from; j < run.End(); j++ {
				k := j - base
				if j > sublineStart {
					if attrs[k].SoftBreak {
						lastBreak = j
					}
					if attrs[k].CharStop {
						lastStop = j
					}
				}
				if attrs[k].WhiteSpace || x+widths[k] <= l.wrapWidth {
					x += widths[k]
					continue
				}

				bp := -1
				switch {
				case lastBreak >= run.Beginning():
					bp = lastBreak
				case run.Beginning() > sublineStart:
					bp = run.Beginning()
				case lastStop > sublineStart:
					bp = lastStop
				case j > sublineStart:
					bp = j
				}
				for bp > run.Beginning() && !run.clusterBoundary(bp) {
					bp--
				}
				if bp <= sublineStart {
					// A cluster wider than the subline: let it overflow.
					x += widths[k]
					continue
				}

				switch {
				case bp == run.Beginning():
					// The previous runs filled the subline.
					firsts = append(firsts, len(out))
				default:
					trailing, err := run.breakAt(bp)
					if err != nil {
						return nil, nil, err
					}
					out = append(out, run)
					firsts = append(firsts, len(out))
					run = trailing
				}
				sublineStart, from, x = bp, bp, 0
				continue scan
			}
			out = append(out, run)
			x1 = x
			break
		}
	}
	return out, firsts, nil
}

// reorder puts the runs of every subline in visual order.
func (l *LineLayout) reorder() {
	out := make([]*TextRun, 0, len(l.runs))
	for s := range l.sublineFirstRuns {
		b, e := l.sublineRuns(s)
		levels := make([]uint8, e-b)
		for i, r := range l.runs[b:e] {
			levels[i] = r.BidiLevel() & 0x1f
		}
		for _, o := range l.ctx.Engine.ReorderVisual(levels) {
			out = append(out, l.runs[b+o])
		}
	}
	l.runs = out
}

// justify stretches every subline to the wrap width. White space that
// ends a subline hangs past the wrap width and keeps its advances.
func (l *LineLayout) justify() {
	for s := range l.sublineFirstRuns {
		hang := l.hangingWhitespace(s)
		b, e := l.sublineRuns(s)
		hung := make([]float64, e-b)
		var w float64
		for i, r := range l.runs[b:e] {
			if !r.Range().Intersect(hang).Empty() {
				bb := r.BlackBoxBounds(hang)
				hung[i] = bb.MaxX - bb.MinX
			}
			w += r.TotalWidth() - hung[i]
		}
		if w <= 0 {
			continue
		}
		ratio := l.wrapWidth / w
		for i, r := range l.runs[b:e] {
			r.justify((r.TotalWidth()-hung[i])*ratio+hung[i], hang)
		}
	}
	l.longestSublineWidth = -1
}

// hangingWhitespace returns the white space at the logical end of
// subline s.
func (l *LineLayout) hangingWhitespace(s int) Range {
	begin := l.sublineOffsets[s]
	end := len(l.text)
	if s+1 < len(l.sublineOffsets) {
		end = l.sublineOffsets[s+1]
	}
	space := make([]bool, end-begin)
	b, e := l.sublineRuns(s)
	for _, r := range l.runs[b:e] {
		if r.tab {
			continue
		}
		attrs := l.ctx.Engine.LogicalAttributes(l.text[r.Beginning():r.End()], r.analysis)
		for i, a := range attrs {
			space[r.Beginning()-begin+i] = a.WhiteSpace
		}
	}
	hang := end
	for hang > begin && space[hang-1-begin] {
		hang--
	}
	return Range{Begin: hang, End: end}
}

// NumberOfRuns returns the number of runs; 0 for an empty line.
func (l *LineLayout) NumberOfRuns() int { return len(l.runs) }

// Run returns run i in visual order.
func (l *LineLayout) Run(i int) (*TextRun, error) {
	if i < 0 || i >= len(l.runs) {
		return nil, outOfBounds("run", i, len(l.runs))
	}
	return l.runs[i], nil
}

// NumberOfSublines returns the number of visual rows, at least 1.
func (l *LineLayout) NumberOfSublines() int { return len(l.sublineFirstRuns) }

// SublineFirstRuns returns the index of the first run of every subline.
func (l *LineLayout) SublineFirstRuns() []int { return slices.Clone(l.sublineFirstRuns) }

// LineNumber returns the logical line the layout belongs to.
func (l *LineLayout) LineNumber() int { return l.lineNumber }

func (l *LineLayout) setLineNumber(line int) { l.lineNumber = line }

// Text returns the line text. The caller must not modify it.
func (l *LineLayout) Text() []rune { return l.text }

// Style returns the resolved line style.
func (l *LineLayout) Style() LineStyle { return l.style }

// WrapWidth returns the wrap width and whether the line is wrapped.
func (l *LineLayout) WrapWidth() (float64, bool) {
	return l.wrapWidth, l.wrapWidth != noWrap
}

// LinePitch returns the height of one subline.
func (l *LineLayout) LinePitch() float64 { return l.pitch }

// IsRTL reports whether the line's reading direction is right-to-left.
func (l *LineLayout) IsRTL() bool { return l.baseLevel&1 == 1 }

func (l *LineLayout) checkColumn(column int) error {
	if column < 0 || column > len(l.text) {
		return badPosition("column", column, len(l.text))
	}
	return nil
}

func (l *LineLayout) checkSubline(s int) error {
	if s < 0 || s >= len(l.sublineFirstRuns) {
		return outOfBounds("subline", s, len(l.sublineFirstRuns))
	}
	return nil
}

// sublineRuns returns the run index range of subline s.
func (l *LineLayout) sublineRuns(s int) (int, int) {
	b := l.sublineFirstRuns[s]
	e := len(l.runs)
	if s+1 < len(l.sublineFirstRuns) {
		e = l.sublineFirstRuns[s+1]
	}
	return b, e
}

func (l *LineLayout) sublineWidth(s int) float64 {
	b, e := l.sublineRuns(s)
	var w float64
	for _, r := range l.runs[b:e] {
		w += r.TotalWidth()
	}
	return w
}

func (l *LineLayout) sublineIndent(s int) float64 {
	if s == 0 {
		return 0
	}
	switch l.style.Alignment {
	case AlignRight:
		return l.sublineWidth(0) - l.sublineWidth(s)
	case AlignCenter:
		return (l.sublineWidth(0) - l.sublineWidth(s)) / 2
	}
	return 0
}

// BidiEmbeddingLevel returns the bidi level of the character at column.
// The end of the line has the paragraph level.
func (l *LineLayout) BidiEmbeddingLevel(column int) (uint8, error) {
	if err := l.checkColumn(column); err != nil {
		return 0, err
	}
	for _, r := range l.runs {
		if r.chars.Contains(column) {
			return r.BidiLevel(), nil
		}
	}
	return l.baseLevel, nil
}

// SublineWidth returns the width of subline s.
func (l *LineLayout) SublineWidth(s int) (float64, error) {
	if err := l.checkSubline(s); err != nil {
		return 0, err
	}
	return l.sublineWidth(s), nil
}

// SublineIndent returns the horizontal offset of subline s relative to
// subline 0: 0 for left and justified lines, the width difference for
// right-aligned lines and half of it for centered lines.
func (l *LineLayout) SublineIndent(s int) (float64, error) {
	if err := l.checkSubline(s); err != nil {
		return 0, err
	}
	return l.sublineIndent(s), nil
}

// SublineOffset returns the offset of the first character of subline s.
func (l *LineLayout) SublineOffset(s int) (int, error) {
	if err := l.checkSubline(s); err != nil {
		return 0, err
	}
	return l.sublineOffsets[s], nil
}

// SublineLength returns the number of characters of subline s.
func (l *LineLayout) SublineLength(s int) (int, error) {
	if err := l.checkSubline(s); err != nil {
		return 0, err
	}
	end := len(l.text)
	if s+1 < len(l.sublineOffsets) {
		end = l.sublineOffsets[s+1]
	}
	return end - l.sublineOffsets[s], nil
}

// SublineOf returns the subline that contains column.
func (l *LineLayout) SublineOf(column int) (int, error) {
	if err := l.checkColumn(column); err != nil {
		return 0, err
	}
	return sort.Search(len(l.sublineOffsets), func(i int) bool { return l.sublineOffsets[i] > column }) - 1, nil
}

// SublineBounds returns the box of subline s.
func (l *LineLayout) SublineBounds(s int) (surface.Rect, error) {
	if err := l.checkSubline(s); err != nil {
		return surface.Rect{}, err
	}
	x := l.sublineIndent(s)
	y := float64(s) * l.pitch
	return surface.Rect{MinX: x, MinY: y, MaxX: x + l.sublineWidth(s), MaxY: y + l.pitch}, nil
}

// LongestSublineWidth returns the width of the widest subline.
func (l *LineLayout) LongestSublineWidth() float64 {
	if l.longestSublineWidth < 0 {
		var w float64
		for s := range l.sublineFirstRuns {
			w = max(w, l.sublineWidth(s))
		}
		l.longestSublineWidth = w
	}
	return l.longestSublineWidth
}

// Bounds returns the box of all sublines.
func (l *LineLayout) Bounds() surface.Rect {
	var r surface.Rect
	for s := range l.sublineFirstRuns {
		x := l.sublineIndent(s)
		if s == 0 {
			r.MinX, r.MaxX = x, x+l.sublineWidth(s)
			continue
		}
		r.MinX = min(r.MinX, x)
		r.MaxX = max(r.MaxX, x+l.sublineWidth(s))
	}
	r.MaxY = float64(len(l.sublineFirstRuns)) * l.pitch
	return r
}

// BoundsOf returns the smallest box covering the black boxes of
// [first, last). An empty range yields the caret box at first.
func (l *LineLayout) BoundsOf(first, last int) (surface.Rect, error) {
	boxes, err := l.BlackBoxBounds(first, last)
	if err != nil {
		return surface.Rect{}, err
	}
	if len(boxes) == 0 {
		lead, _, err := l.Locations(first)
		if err != nil {
			return surface.Rect{}, err
		}
		return surface.Rect{MinX: lead.X, MinY: lead.Y, MaxX: lead.X, MaxY: lead.Y + l.pitch}, nil
	}
	r := boxes[0]
	for _, b := range boxes[1:] {
		r = r.Union(b)
	}
	return r, nil
}

// BlackBoxBounds returns the boxes of the characters of [first, last):
// one box per span of visually adjacent runs within a subline.
func (l *LineLayout) BlackBoxBounds(first, last int) ([]surface.Rect, error) {
	if first > last {
		return nil, invalidArgument("range [%d,%d)", first, last)
	}
	if err := l.checkColumn(first); err != nil {
		return nil, err
	}
	if err := l.checkColumn(last); err != nil {
		return nil, err
	}
	want := Range{Begin: first, End: last}
	var out []surface.Rect
	for s := range l.sublineFirstRuns {
		b, e := l.sublineRuns(s)
		x := l.sublineIndent(s)
		baseline := float64(s)*l.pitch + l.ascent
		var cur surface.Rect
		open := false
		for _, r := range l.runs[b:e] {
			part := want.Intersect(r.chars)
			if part.Empty() {
				if open {
					out = append(out, cur)
					open = false
				}
				x += r.TotalWidth()
				continue
			}
			bb := r.BlackBoxBounds(part).Translate(x, baseline)
			if open && math.Abs(cur.MaxX-bb.MinX) < 1e-6 {
				cur = cur.Union(bb)
			} else {
				if open {
					out = append(out, cur)
				}
				cur, open = bb, true
			}
			x += r.TotalWidth()
		}
		if open {
			out = append(out, cur)
		}
	}
	return out, nil
}

// Locations returns the leading and trailing edge of the character at
// column, at the top of its subline. The end of the line has one edge.
func (l *LineLayout) Locations(column int) (leading, trailing surface.Point, err error) {
	s, err := l.SublineOf(column)
	if err != nil {
		return surface.Point{}, surface.Point{}, err
	}
	y := float64(s) * l.pitch
	x := l.sublineIndent(s)
	b, e := l.sublineRuns(s)
	for _, r := range l.runs[b:e] {
		if r.chars.Contains(column) {
			return surface.Pt(x+r.x(column, false), y), surface.Pt(x+r.x(column, true), y), nil
		}
		x += r.TotalWidth()
	}
	x = l.sublineIndent(s)
	if !l.IsRTL() {
		x += l.sublineWidth(s)
	}
	return surface.Pt(x, y), surface.Pt(x, y), nil
}

// Offset returns the character under (x, y) and the character whose
// leading edge is closest to x. Points outside the layout are clamped.
func (l *LineLayout) Offset(x, y float64) (character, leadingEdge int) {
	if len(l.runs) == 0 {
		return 0, 0
	}
	s := min(max(int(math.Floor(y/l.pitch)), 0), len(l.sublineFirstRuns)-1)
	x -= l.sublineIndent(s)
	b, e := l.sublineRuns(s)
	var rx float64
	for i := b; i < e; i++ {
		r := l.runs[i]
		w := r.TotalWidth()
		if x < rx+w || i == e-1 {
			cp, trailing := r.HitTest(x - rx)
			lead := cp
			if trailing {
				lead = cp + 1
				for lead < r.End() && !r.clusterBoundary(lead) {
					lead++
				}
			}
			return cp, lead
		}
		rx += w
	}
	return l.sublineOffsets[s], l.sublineOffsets[s]
}

// StyledSegments yields the styled sub-ranges of r with their resolved
// styles, in logical order.
func (l *LineLayout) StyledSegments(r Range) iter.Seq2[Range, *RunStyle] {
	return styledSegments(l.styles, r.Intersect(Range{End: len(l.text)}))
}

// styledSegments yields the pieces of r covered by each of styles, found
// by binary search.
func styledSegments(styles []StyledRun, r Range) iter.Seq2[Range, *RunStyle] {
	return func(yield func(Range, *RunStyle) bool) {
		if r.Empty() || len(styles) == 0 {
			return
		}
		i := max(sort.Search(len(styles), func(i int) bool { return styles[i].Column > r.Begin })-1, 0)
		pos := r.Begin
		for ; i < len(styles) && pos < r.End; i++ {
			end := r.End
			if i+1 < len(styles) {
				end = min(end, styles[i+1].Column)
			}
			if end <= pos {
				continue
			}
			if !yield(Range{Begin: pos, End: end}, styles[i].Style) {
				return
			}
			pos = end
		}
	}
}

// Draw draws every subline with the top-left corner of the line at origin.
func (l *LineLayout) Draw(dst surface.Surface, origin surface.Point, sel *Selection) error {
	for s := range l.sublineFirstRuns {
		if err := l.DrawSubline(dst, s, origin.Add(surface.Pt(0, float64(s)*l.pitch)), sel); err != nil {
			return err
		}
	}
	return nil
}

// DrawSubline draws subline s with its top-left corner at origin.
// Backgrounds are drawn before any glyph.
func (l *LineLayout) DrawSubline(dst surface.Surface, s int, origin surface.Point, sel *Selection) error {
	if err := l.checkSubline(s); err != nil {
		return err
	}
	colors := l.ctx.Environment.Colors()
	baseline := origin.Y + l.ascent
	b, e := l.sublineRuns(s)
	xs := make([]float64, e-b)
	x := origin.X + l.sublineIndent(s)
	for i, r := range l.runs[b:e] {
		xs[i] = x
		pt := surface.Pt(x, baseline)
		for seg, st := range l.StyledSegments(r.chars) {
			r.drawBackground(dst, seg, pt, st.Background)
		}
		if sel != nil {
			r.drawBackground(dst, sel.Range, pt, colorOr(sel.Background, colors.Selection))
		}
		x += r.TotalWidth()
	}

	for i, r := range l.runs[b:e] {
		pt := surface.Pt(xs[i], baseline)
		for seg, st := range l.StyledSegments(r.chars) {
			fg := colorOr(st.Foreground, colors.Text)
			for _, piece := range splitSelection(seg, sel) {
				c := fg
				if piece.selected {
					c = colorOr(sel.Foreground, colors.SelectedText)
				}
				r.drawForeground(dst, piece.Range, pt, c)
			}
			l.drawDecorations(dst, r, seg, st, pt, fg)
		}
	}
	return nil
}

// drawDecorations draws the underline and strikethrough of seg.
func (l *LineLayout) drawDecorations(dst surface.Surface, r *TextRun, seg Range, st *RunStyle, pt surface.Point, c color.Color) {
	if !st.Underline && !st.Strikethrough {
		return
	}
	bb := r.BlackBoxBounds(seg)
	offset, thickness := r.font.Underline()
	line := func(y float64) {
		dst.FillRect(surface.Rect{
			MinX: pt.X + bb.MinX, MinY: y - thickness/2,
			MaxX: pt.X + bb.MaxX, MaxY: y + thickness/2,
		}, c)
	}
	if st.Underline {
		line(pt.Y + offset)
	}
	if st.Strikethrough {
		line(pt.Y - r.font.Metrics().XHeight/2)
	}
}

type selectionPiece struct {
	Range
	selected bool
}

// splitSelection splits seg at the bounds of the selection.
func splitSelection(seg Range, sel *Selection) []selectionPiece {
	if sel == nil {
		return []selectionPiece{{Range: seg}}
	}
	in := seg.Intersect(sel.Range)
	if in.Empty() {
		return []selectionPiece{{Range: seg}}
	}
	pieces := make([]selectionPiece, 0, 3)
	if seg.Begin < in.Begin {
		pieces = append(pieces, selectionPiece{Range: Range{Begin: seg.Begin, End: in.Begin}})
	}
	pieces = append(pieces, selectionPiece{Range: in, selected: true})
	if in.End < seg.End {
		pieces = append(pieces, selectionPiece{Range: Range{Begin: in.End, End: seg.End}})
	}
	return pieces
}

func colorOr(c color.Color, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}
