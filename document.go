package textlayout

import (
	"slices"
	"strings"
)

// Position is a character position in a document.
type Position struct {
	Line   int
	Column int
}

// Less reports whether p is before o.
func (p Position) Less(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Column < o.Column)
}

// Region is the span between two positions, in either order.
type Region struct {
	First  Position
	Second Position
}

// Beginning returns the smaller position.
func (r Region) Beginning() Position {
	if r.Second.Less(r.First) {
		return r.Second
	}
	return r.First
}

// End returns the larger position.
func (r Region) End() Position {
	if r.Second.Less(r.First) {
		return r.First
	}
	return r.Second
}

// Lines returns the number of line breaks the region spans.
func (r Region) Lines() int { return r.End().Line - r.Beginning().Line }

// DocumentChange describes one edit: Erased is the removed region in
// pre-change coordinates, Inserted the new region in post-change
// coordinates.
type DocumentChange struct {
	Erased   Region
	Inserted Region
}

// DocumentListener receives the two-phase change notifications of a
// Document.
type DocumentListener interface {
	// DocumentAboutToBeChanged is called before the document changes.
	DocumentAboutToBeChanged(doc Document)
	// DocumentChanged is called after the document changed.
	DocumentChanged(doc Document, change DocumentChange)
}

// Document is the line-structured text the layouts are built from.
type Document interface {
	// NumberOfLines returns the number of lines, at least 1.
	NumberOfLines() int
	// Line returns the text of a line without its terminator. The caller
	// must not modify it.
	Line(line int) ([]rune, error)
	AddListener(l DocumentListener)
	RemoveListener(l DocumentListener)
}

// SimpleDocument is an in-memory Document. Lines are split on LF, CR LF
// and CR.
type SimpleDocument struct {
	lines     [][]rune
	listeners []DocumentListener
}

// NewSimpleDocument creates a document holding s.
func NewSimpleDocument(s string) *SimpleDocument {
	return &SimpleDocument{lines: splitLines(s)}
}

func splitLines(s string) [][]rune {
	var lines [][]rune
	for {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			break
		}
		lines = append(lines, []rune(s[:i]))
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return append(lines, []rune(s))
}

// NumberOfLines implements Document.
func (d *SimpleDocument) NumberOfLines() int { return len(d.lines) }

// Line implements Document.
func (d *SimpleDocument) Line(line int) ([]rune, error) {
	if line < 0 || line >= len(d.lines) {
		return nil, badPosition("line", line, len(d.lines))
	}
	return d.lines[line], nil
}

// Text returns the document text with LF terminators.
func (d *SimpleDocument) Text() string {
	var sb strings.Builder
	for i, l := range d.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(l))
	}
	return sb.String()
}

// AddListener implements Document.
func (d *SimpleDocument) AddListener(l DocumentListener) {
	d.listeners = append(d.listeners, l)
}

// RemoveListener implements Document.
func (d *SimpleDocument) RemoveListener(l DocumentListener) {
	d.listeners = slices.DeleteFunc(d.listeners, func(x DocumentListener) bool { return x == l })
}

func (d *SimpleDocument) checkPosition(p Position) error {
	if p.Line < 0 || p.Line >= len(d.lines) {
		return badPosition("line", p.Line, len(d.lines))
	}
	if p.Column < 0 || p.Column > len(d.lines[p.Line]) {
		return badPosition("column", p.Column, len(d.lines[p.Line]))
	}
	return nil
}

// Insert inserts s at pos and returns the end of the inserted text.
func (d *SimpleDocument) Insert(pos Position, s string) (Position, error) {
	return d.Replace(Region{First: pos, Second: pos}, s)
}

// Erase removes the text of r.
func (d *SimpleDocument) Erase(r Region) error {
	_, err := d.Replace(r, "")
	return err
}

// Replace replaces the text of r with s and returns the end of the
// inserted text. Listeners see one two-phase notification.
func (d *SimpleDocument) Replace(r Region, s string) (Position, error) {
	b, e := r.Beginning(), r.End()
	if err := d.checkPosition(b); err != nil {
		return Position{}, err
	}
	if err := d.checkPosition(e); err != nil {
		return Position{}, err
	}

	listeners := slices.Clone(d.listeners)
	for _, l := range listeners {
		l.DocumentAboutToBeChanged(d)
	}

	head := d.lines[b.Line][:b.Column]
	tail := d.lines[e.Line][e.Column:]
	ins := splitLines(s)
	last := len(ins) - 1
	end := Position{Line: b.Line + last, Column: len(ins[last])}
	if last == 0 {
		end.Column += len(head)
	}

	repl := ins
	repl[0] = append(append([]rune(nil), head...), repl[0]...)
	repl[last] = append(append([]rune(nil), repl[last]...), tail...)
	d.lines = slices.Replace(d.lines, b.Line, e.Line+1, repl...)

	change := DocumentChange{
		Erased:   Region{First: b, Second: e},
		Inserted: Region{First: b, Second: end},
	}
	for _, l := range listeners {
		l.DocumentChanged(d, change)
	}
	return end, nil
}
