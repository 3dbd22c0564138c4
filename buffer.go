package textlayout

import (
	"math"
	"slices"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// recomputeLongest asks updateLongestLine to scan the cached layouts.
const recomputeLongest = -1

// VisualLinesListener observes the visual line structure of a buffer.
type VisualLinesListener interface {
	// VisualLinesDeleted is called after the logical lines in lines were
	// removed from the document, or after their layouts were dropped
	// without being rebuilt. sublines is the number of visual lines they
	// occupied.
	VisualLinesDeleted(lines Range, sublines int)
	// VisualLinesInserted is called after lines were inserted.
	VisualLinesInserted(lines Range)
	// VisualLinesModified is called when the layouts of lines changed.
	// delta is the change of the number of visual lines; documentChanged
	// reports whether a document edit caused it.
	VisualLinesModified(lines Range, delta int, documentChanged bool)
}

// LineLayoutBuffer caches the layouts of recently used lines and keeps the
// number of visual lines of the document up to date. Lines that are not
// cached count as one visual line.
//
// A LineLayoutBuffer is not safe for concurrent use.
type LineLayoutBuffer struct {
	ctx        *LayoutContext
	cache      *simplelru.LRU[int, *LineLayout]
	size       int
	autoRepair bool

	numberOfVisualLines int
	longestLine         int
	longestLineWidth    float64

	changing      bool
	inChange      bool
	pending       Range
	hasPending    bool
	suppressEvict bool

	listeners []VisualLinesListener
}

// NewLineLayoutBuffer creates a buffer holding at most size layouts and
// registers it as a listener of the document. When autoRepair is set,
// layouts invalidated by document edits are rebuilt at once.
func NewLineLayoutBuffer(ctx *LayoutContext, size int, autoRepair bool) (*LineLayoutBuffer, error) {
	if err := ctx.check(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, invalidArgument("buffer size %d", size)
	}
	b := &LineLayoutBuffer{
		ctx:                 ctx,
		size:                size,
		autoRepair:          autoRepair,
		numberOfVisualLines: ctx.Document.NumberOfLines(),
		longestLine:         -1,
	}
	cache, err := simplelru.NewLRU(size, b.evicted)
	if err != nil {
		return nil, invalidArgument("buffer size %d: %v", size, err)
	}
	b.cache = cache
	ctx.Document.AddListener(b)
	return b, nil
}

// evicted collapses an evicted layout to one visual line.
func (b *LineLayoutBuffer) evicted(line int, l *LineLayout) {
	if b.suppressEvict {
		return
	}
	delta := 1 - l.NumberOfSublines()
	b.numberOfVisualLines += delta
	slogger().Debug("line layout evicted", "line", line, "sublines", l.NumberOfSublines())
	b.fireModified(Range{Begin: line, End: line + 1}, delta, b.inChange)
	if line == b.longestLine {
		b.updateLongestLine(recomputeLongest, 0)
	}
}

// Context returns the layout context of the buffer.
func (b *LineLayoutBuffer) Context() *LayoutContext { return b.ctx }

// Size returns the capacity of the buffer.
func (b *LineLayoutBuffer) Size() int { return b.size }

// AutoRepair reports whether invalidated layouts are rebuilt at once.
func (b *LineLayoutBuffer) AutoRepair() bool { return b.autoRepair }

// LineLayout returns the layout of line, building and caching it when it
// is not cached. The least recently used layout is evicted when the buffer
// is full.
func (b *LineLayoutBuffer) LineLayout(line int) (*LineLayout, error) {
	if n := b.ctx.Document.NumberOfLines(); line < 0 || line >= n {
		return nil, badPosition("line", line, n)
	}
	if l, ok := b.cache.Get(line); ok {
		return l, nil
	}
	l, err := NewLineLayout(b.ctx, line)
	if err != nil {
		return nil, err
	}
	if b.cache.Len() >= b.size {
		b.cache.RemoveOldest()
	}
	b.cache.Add(line, l)
	delta := l.NumberOfSublines() - 1
	b.numberOfVisualLines += delta
	b.fireModified(Range{Begin: line, End: line + 1}, delta, false)
	if w := l.LongestSublineWidth(); b.longestLine < 0 || w > b.longestLineWidth {
		b.updateLongestLine(line, w)
	}
	return l, nil
}

// LineLayoutIfCached returns the cached layout of line without changing
// its recency, or nil.
func (b *LineLayoutBuffer) LineLayoutIfCached(line int) *LineLayout {
	l, _ := b.cache.Peek(line)
	return l
}

// ClearCaches discards the layouts of the lines in [first, last). With
// repair the discarded layouts are rebuilt at once. While a document
// change is pending the request is queued and applied once the change
// completes.
func (b *LineLayoutBuffer) ClearCaches(first, last int, repair bool) error {
	if first < 0 || last < first {
		return invalidArgument("line range [%d,%d)", first, last)
	}
	if first == last {
		return nil
	}
	r := Range{Begin: first, End: last}
	if b.changing {
		if b.hasPending {
			b.pending = b.pending.Union(r)
		} else {
			b.pending, b.hasPending = r, true
		}
		return nil
	}
	b.clear(r, repair)
	return nil
}

// InvalidateAll discards every cached layout, rebuilding them when the
// buffer repairs automatically.
func (b *LineLayoutBuffer) InvalidateAll() {
	if err := b.ClearCaches(0, math.MaxInt, b.autoRepair); err != nil {
		slogger().Debug("invalidation failed", "err", err)
	}
}

func (b *LineLayoutBuffer) clear(r Range, repair bool) {
	var span Range
	touched := false
	delta := 0
	b.rekey(func(line int, l *LineLayout) (int, *LineLayout) {
		if !r.Contains(line) {
			return line, l
		}
		if touched {
			span = span.Union(Range{Begin: line, End: line + 1})
		} else {
			span, touched = Range{Begin: line, End: line + 1}, true
		}
		old := l.NumberOfSublines()
		if !repair {
			delta += 1 - old
			return line, nil
		}
		rebuilt, err := NewLineLayout(b.ctx, line)
		if err != nil {
			slogger().Debug("layout repair failed, dropping line", "line", line, "err", err)
			delta += 1 - old
			return line, nil
		}
		delta += rebuilt.NumberOfSublines() - old
		return line, rebuilt
	})
	if !touched {
		return
	}
	slogger().Debug("line layouts invalidated", "first", span.Begin, "last", span.End, "repair", repair)
	b.numberOfVisualLines += delta
	if repair {
		b.fireModified(span, delta, b.inChange)
	} else {
		// Every line of span now counts as one visual line.
		sublines := span.Len() - delta
		for _, l := range b.listeners {
			l.VisualLinesDeleted(span, sublines)
		}
	}
	b.updateLongestLine(recomputeLongest, 0)
}

// rekey replaces every cached entry by fn(line, layout), keeping the
// recency order. A nil layout drops the entry.
func (b *LineLayoutBuffer) rekey(fn func(line int, l *LineLayout) (int, *LineLayout)) {
	keys := b.cache.Keys()
	type entry struct {
		line   int
		layout *LineLayout
	}
	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		l, _ := b.cache.Peek(k)
		if line, nl := fn(k, l); nl != nil {
			nl.setLineNumber(line)
			entries = append(entries, entry{line, nl})
		}
	}
	b.suppressEvict = true
	b.cache.Purge()
	for _, e := range entries {
		b.cache.Add(e.line, e.layout)
	}
	b.suppressEvict = false
}

// DocumentAboutToBeChanged implements DocumentListener.
func (b *LineLayoutBuffer) DocumentAboutToBeChanged(Document) {
	b.changing = true
}

// DocumentChanged implements DocumentListener. Cached lines are renumbered
// before the changed lines are invalidated.
func (b *LineLayoutBuffer) DocumentChanged(_ Document, change DocumentChange) {
	b.changing = false
	b.inChange = true
	defer func() { b.inChange = false }()

	first := change.Erased.Beginning().Line
	if erased := change.Erased.Lines(); erased > 0 {
		deleted := Range{Begin: first + 1, End: first + erased + 1}
		sublines := erased
		b.rekey(func(line int, l *LineLayout) (int, *LineLayout) {
			switch {
			case deleted.Contains(line):
				sublines += l.NumberOfSublines() - 1
				return line, nil
			case line >= deleted.End:
				return line - erased, l
			}
			return line, l
		})
		b.numberOfVisualLines -= sublines
		for _, l := range b.listeners {
			l.VisualLinesDeleted(deleted, sublines)
		}
	}
	if inserted := change.Inserted.Lines(); inserted > 0 {
		b.rekey(func(line int, l *LineLayout) (int, *LineLayout) {
			if line > first {
				return line + inserted, l
			}
			return line, l
		})
		b.numberOfVisualLines += inserted
		for _, l := range b.listeners {
			l.VisualLinesInserted(Range{Begin: first + 1, End: first + inserted + 1})
		}
	}

	r := Range{Begin: first, End: first + 1}
	if b.hasPending {
		r = r.Union(b.pending)
		b.hasPending = false
	}
	b.clear(r, b.autoRepair)
	b.updateLongestLine(recomputeLongest, 0)
}

// NumberOfVisualLines returns the number of visual lines of the document,
// counting uncached lines as one.
func (b *LineLayoutBuffer) NumberOfVisualLines() int { return b.numberOfVisualLines }

// NumberOfSublinesOfLine returns the number of sublines of line, building
// its layout if needed.
func (b *LineLayoutBuffer) NumberOfSublinesOfLine(line int) (int, error) {
	l, err := b.LineLayout(line)
	if err != nil {
		return 0, err
	}
	return l.NumberOfSublines(), nil
}

// LongestLine returns the cached line with the widest subline and that
// width, or -1 when nothing is cached.
func (b *LineLayoutBuffer) LongestLine() (int, float64) {
	return b.longestLine, b.longestLineWidth
}

// updateLongestLine records line as the longest line, or rescans the
// cached layouts when line is recomputeLongest.
func (b *LineLayoutBuffer) updateLongestLine(line int, width float64) {
	if line != recomputeLongest {
		b.longestLine, b.longestLineWidth = line, width
		return
	}
	b.longestLine, b.longestLineWidth = -1, 0
	for _, k := range b.cache.Keys() {
		l, _ := b.cache.Peek(k)
		if w := l.LongestSublineWidth(); b.longestLine < 0 || w > b.longestLineWidth {
			b.longestLine, b.longestLineWidth = k, w
		}
	}
}

// cachedLines returns the cached line numbers in ascending order.
func (b *LineLayoutBuffer) cachedLines() []int {
	keys := b.cache.Keys()
	slices.Sort(keys)
	return keys
}

// MapLogicalLineToVisualLine returns the visual line of the first subline
// of line.
func (b *LineLayoutBuffer) MapLogicalLineToVisualLine(line int) (int, error) {
	if n := b.ctx.Document.NumberOfLines(); line < 0 || line >= n {
		return 0, badPosition("line", line, n)
	}
	visual := line
	for _, k := range b.cachedLines() {
		if k >= line {
			break
		}
		l, _ := b.cache.Peek(k)
		visual += l.NumberOfSublines() - 1
	}
	return visual, nil
}

// MapLogicalPositionToVisualPosition returns the visual line of pos and
// the column of pos within its subline. The layout of pos.Line is built
// if needed.
func (b *LineLayoutBuffer) MapLogicalPositionToVisualPosition(pos Position) (Position, error) {
	l, err := b.LineLayout(pos.Line)
	if err != nil {
		return Position{}, err
	}
	s, err := l.SublineOf(pos.Column)
	if err != nil {
		return Position{}, err
	}
	visual, err := b.MapLogicalLineToVisualLine(pos.Line)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: visual + s, Column: pos.Column - l.sublineOffsets[s]}, nil
}

// MapVisualLineToLogicalLine returns the logical line displayed on visual
// line and the subline index within it. Lines past the end are clamped to
// the last subline.
func (b *LineLayoutBuffer) MapVisualLineToLogicalLine(visual int) (line, subline int, err error) {
	if visual < 0 {
		return 0, 0, badPosition("visual line", visual, b.numberOfVisualLines)
	}
	n := b.ctx.Document.NumberOfLines()
	v := visual
	for _, k := range b.cachedLines() {
		if v < k-line {
			return line + v, 0, nil
		}
		v -= k - line
		l, _ := b.cache.Peek(k)
		s := l.NumberOfSublines()
		if v < s {
			return k, v, nil
		}
		v -= s
		line = k + 1
	}
	if line+v < n {
		return line + v, 0, nil
	}
	last := n - 1
	if l, ok := b.cache.Peek(last); ok {
		return last, l.NumberOfSublines() - 1, nil
	}
	return last, 0, nil
}

// AddVisualLinesListener registers l.
func (b *LineLayoutBuffer) AddVisualLinesListener(l VisualLinesListener) {
	b.listeners = append(b.listeners, l)
}

// RemoveVisualLinesListener unregisters l.
func (b *LineLayoutBuffer) RemoveVisualLinesListener(l VisualLinesListener) {
	b.listeners = slices.DeleteFunc(b.listeners, func(x VisualLinesListener) bool { return x == l })
}

func (b *LineLayoutBuffer) fireModified(lines Range, delta int, documentChanged bool) {
	for _, l := range b.listeners {
		l.VisualLinesModified(lines, delta, documentChanged)
	}
}

// Close detaches the buffer from the document and drops every layout.
func (b *LineLayoutBuffer) Close() {
	b.ctx.Document.RemoveListener(b)
	b.suppressEvict = true
	b.cache.Purge()
	b.suppressEvict = false
	b.listeners = nil
	b.longestLine, b.longestLineWidth = -1, 0
}
