package textlayout

import (
	"slices"

	"github.com/gogpu/textlayout/text"
)

// Presentation supplies the styles of a document's lines.
type Presentation interface {
	// DefaultLineStyle returns the style of lines without their own style.
	DefaultLineStyle() *LineStyle
	// DefaultRunStyle returns the style inherited by every run style.
	DefaultRunStyle() *RunStyle
	// LineStyle returns the style of a line, or nil for the default.
	LineStyle(line int) *LineStyle
	// StyledRuns returns the styled runs of a line, ordered by column.
	// Nil styles the whole line with the default run style.
	StyledRuns(line int) []StyledRun
}

// DefaultStyleListener is notified when a presentation's default styles
// change.
type DefaultStyleListener interface {
	DefaultStyleChanged()
}

// SimplePresentation is a Presentation with default styles plus per-line
// overrides.
type SimplePresentation struct {
	defaultLine LineStyle
	defaultRun  RunStyle
	lineStyles  map[int]*LineStyle
	runs        map[int][]StyledRun
	listeners   []DefaultStyleListener
}

// NewSimplePresentation creates a presentation with a left-aligned,
// unwrapped default line style and a regular default run style.
func NewSimplePresentation() *SimplePresentation {
	return &SimplePresentation{
		defaultRun: RunStyle{Properties: text.DefaultProperties()},
		lineStyles: make(map[int]*LineStyle),
		runs:       make(map[int][]StyledRun),
	}
}

// DefaultLineStyle implements Presentation.
func (p *SimplePresentation) DefaultLineStyle() *LineStyle { return &p.defaultLine }

// DefaultRunStyle implements Presentation.
func (p *SimplePresentation) DefaultRunStyle() *RunStyle { return &p.defaultRun }

// LineStyle implements Presentation.
func (p *SimplePresentation) LineStyle(line int) *LineStyle { return p.lineStyles[line] }

// StyledRuns implements Presentation.
func (p *SimplePresentation) StyledRuns(line int) []StyledRun { return p.runs[line] }

// SetDefaultLineStyle replaces the default line style.
func (p *SimplePresentation) SetDefaultLineStyle(s LineStyle) {
	p.defaultLine = s
	p.notify()
}

// SetDefaultRunStyle replaces the default run style.
func (p *SimplePresentation) SetDefaultRunStyle(s RunStyle) {
	p.defaultRun = s
	p.notify()
}

// SetLineStyle sets the style of one line; nil restores the default.
func (p *SimplePresentation) SetLineStyle(line int, s *LineStyle) {
	if s == nil {
		delete(p.lineStyles, line)
		return
	}
	p.lineStyles[line] = s
}

// SetStyledRuns sets the styled runs of one line; nil restores the default.
func (p *SimplePresentation) SetStyledRuns(line int, runs []StyledRun) {
	if runs == nil {
		delete(p.runs, line)
		return
	}
	p.runs[line] = slices.Clone(runs)
}

// AddDefaultStyleListener registers l.
func (p *SimplePresentation) AddDefaultStyleListener(l DefaultStyleListener) {
	p.listeners = append(p.listeners, l)
}

// RemoveDefaultStyleListener unregisters l.
func (p *SimplePresentation) RemoveDefaultStyleListener(l DefaultStyleListener) {
	p.listeners = slices.DeleteFunc(p.listeners, func(x DefaultStyleListener) bool { return x == l })
}

func (p *SimplePresentation) notify() {
	for _, l := range slices.Clone(p.listeners) {
		l.DefaultStyleChanged()
	}
}
