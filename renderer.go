package textlayout

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/gogpu/textlayout/surface"
	"github.com/gogpu/textlayout/text"
)

// fallbackFontSize is the primary font size when neither the default run
// style nor the settings give one.
const fallbackFontSize = 16

// DefaultFontListener observes the primary font of a TextRenderer.
type DefaultFontListener interface {
	DefaultFontChanged()
}

// TextRenderer draws the lines of a document. It owns the layout buffer
// and the primary font, and follows changes of the default style and of
// the environment.
//
// A TextRenderer is not safe for concurrent use.
type TextRenderer struct {
	ctx       *LayoutContext
	buffer    *LineLayoutBuffer
	opts      rendererOptions
	listeners []DefaultFontListener

	offscreen surface.Surface
}

// NewTextRenderer creates a renderer for doc. A nil env uses the default
// environment.
func NewTextRenderer(doc Document, pres Presentation, engine text.Engine, fonts text.FontResolver,
	env *Environment, opts ...RendererOption,
) (*TextRenderer, error) {
	if env == nil {
		env = DefaultEnvironment()
	}
	o := defaultRendererOptions(env)
	for _, opt := range opts {
		opt(&o)
	}
	r := &TextRenderer{
		ctx: &LayoutContext{
			Document:     doc,
			Presentation: pres,
			Engine:       engine,
			Fonts:        fonts,
			Environment:  env,
			LayoutWidth:  o.layoutWidth,
		},
		opts: o,
	}
	if pres == nil || fonts == nil {
		return nil, invalidArgument("renderer needs a presentation and a font resolver")
	}
	primary, err := r.resolvePrimaryFont()
	if err != nil {
		return nil, fmt.Errorf("resolve primary font: %w", err)
	}
	r.ctx.PrimaryFont = primary

	r.buffer, err = NewLineLayoutBuffer(r.ctx, o.bufferSize, o.autoRepair)
	if err != nil {
		return nil, err
	}
	env.AddListener(r)
	if p, ok := pres.(interface {
		AddDefaultStyleListener(DefaultStyleListener)
	}); ok {
		p.AddDefaultStyleListener(r)
	}
	return r, nil
}

// resolvePrimaryFont resolves the default run style, with the font
// settings of the environment filling the gaps.
func (r *TextRenderer) resolvePrimaryFont() (*text.Font, error) {
	style := r.ctx.Presentation.DefaultRunStyle().inherit(nil)
	fs := r.ctx.Environment.Settings().Font
	if style.FontFamily == "" {
		style.FontFamily = fs.Family
	}
	if style.Size <= 0 {
		style.Size = fs.Size
	}
	if style.Size <= 0 {
		style.Size = fallbackFontSize
	}
	return r.ctx.Fonts.Resolve(style.fontRequest())
}

// UpdateDefaultFont re-resolves the primary font. When it changed, every
// layout is invalidated and the DefaultFontListeners are notified.
func (r *TextRenderer) UpdateDefaultFont() error {
	_, err := r.updateDefaultFont()
	return err
}

func (r *TextRenderer) updateDefaultFont() (bool, error) {
	f, err := r.resolvePrimaryFont()
	if err != nil {
		return false, err
	}
	if f == r.ctx.PrimaryFont {
		return false, nil
	}
	slogger().Debug("primary font changed", "family", f.Family(), "size", f.Size())
	r.ctx.PrimaryFont = f
	r.buffer.InvalidateAll()
	for _, l := range r.listeners {
		l.DefaultFontChanged()
	}
	return true, nil
}

// refresh follows a change of the default style or the environment.
func (r *TextRenderer) refresh() {
	changed, err := r.updateDefaultFont()
	if err != nil {
		slogger().Warn("primary font not resolved, keeping the previous one", "err", err)
	}
	if !changed {
		r.buffer.InvalidateAll()
	}
}

// EnvironmentChanged implements EnvironmentListener.
func (r *TextRenderer) EnvironmentChanged(*Environment) { r.refresh() }

// DefaultStyleChanged implements DefaultStyleListener.
func (r *TextRenderer) DefaultStyleChanged() { r.refresh() }

// PrimaryFont returns the document-wide default font.
func (r *TextRenderer) PrimaryFont() *text.Font { return r.ctx.PrimaryFont }

// LineLayoutBuffer returns the layout buffer of the renderer.
func (r *TextRenderer) LineLayoutBuffer() *LineLayoutBuffer { return r.buffer }

// LinePitch returns the height of one visual line.
func (r *TextRenderer) LinePitch() float64 {
	m := r.ctx.PrimaryFont.Metrics()
	return m.CellHeight + m.LineGap
}

// LayoutWidth returns the width lines are wrapped to.
func (r *TextRenderer) LayoutWidth() float64 { return r.ctx.LayoutWidth }

// SetLayoutWidth changes the wrap width and invalidates every layout.
func (r *TextRenderer) SetLayoutWidth(w float64) {
	if w == r.ctx.LayoutWidth {
		return
	}
	r.ctx.LayoutWidth = w
	r.buffer.InvalidateAll()
}

// AddDefaultFontListener registers l.
func (r *TextRenderer) AddDefaultFontListener(l DefaultFontListener) {
	r.listeners = append(r.listeners, l)
}

// RemoveDefaultFontListener unregisters l.
func (r *TextRenderer) RemoveDefaultFontListener(l DefaultFontListener) {
	r.listeners = slices.DeleteFunc(r.listeners, func(x DefaultFontListener) bool { return x == l })
}

// RenderLine draws line with its top-left corner at origin. Sublines
// outside paintRect or clipRect are skipped, and drawing is clipped to
// clipRect. sel may be nil.
func (r *TextRenderer) RenderLine(target surface.Surface, line int, origin surface.Point,
	paintRect, clipRect surface.Rect, sel *Selection,
) error {
	l, err := r.buffer.LineLayout(line)
	if err != nil {
		return err
	}
	pitch := l.LinePitch()
	for s := range l.NumberOfSublines() {
		top := origin.Y + float64(s)*pitch
		if top >= paintRect.MaxY || top+pitch <= paintRect.MinY ||
			top >= clipRect.MaxY || top+pitch <= clipRect.MinY {
			continue
		}
		if r.opts.doubleBuffering {
			err = r.drawBuffered(target, l, s, origin.X, top, clipRect, sel)
		} else {
			err = r.drawDirect(target, l, s, surface.Pt(origin.X, top), clipRect, sel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) drawDirect(target surface.Surface, l *LineLayout, s int, at surface.Point,
	clipRect surface.Rect, sel *Selection,
) error {
	if c, ok := target.(surface.ClippableSurface); ok {
		c.SetClip(clipRect.Bounds())
		defer c.ClearClip()
	}
	return l.DrawSubline(target, s, at, sel)
}

// drawBuffered draws subline s into the off-screen surface and copies it
// to the target at the left edge of clipRect.
func (r *TextRenderer) drawBuffered(target surface.Surface, l *LineLayout, s int, x, top float64,
	clipRect surface.Rect, sel *Selection,
) error {
	w := int(math.Ceil(clipRect.Width()))
	h := int(math.Ceil(l.LinePitch()))
	if w <= 0 || h <= 0 {
		return nil
	}
	off, err := r.offscreenSurface(w, h)
	if err != nil {
		return err
	}
	off.Clear(color.Transparent)
	if err := l.DrawSubline(off, s, surface.Pt(x-clipRect.MinX, 0), sel); err != nil {
		return err
	}
	target.DrawImage(off.Snapshot(), surface.Pt(clipRect.MinX, top))
	return nil
}

// offscreenSurface returns a w x h surface, reusing the previous one when
// the size matches.
func (r *TextRenderer) offscreenSurface(w, h int) (surface.Surface, error) {
	if r.offscreen != nil && r.offscreen.Width() == w && r.offscreen.Height() == h {
		return r.offscreen, nil
	}
	if r.offscreen != nil {
		_ = r.offscreen.Close()
	}
	s, err := surface.NewSurfaceByName(r.opts.backend, surface.DefaultOptions(w, h))
	if err != nil {
		r.offscreen = nil
		return nil, fmt.Errorf("create off-screen surface: %w", err)
	}
	r.offscreen = s
	return s, nil
}

// Close detaches the renderer from its collaborators and releases the
// off-screen surface.
func (r *TextRenderer) Close() error {
	r.ctx.Environment.RemoveListener(r)
	if p, ok := r.ctx.Presentation.(interface {
		RemoveDefaultStyleListener(DefaultStyleListener)
	}); ok {
		p.RemoveDefaultStyleListener(r)
	}
	r.buffer.Close()
	if r.offscreen != nil {
		err := r.offscreen.Close()
		r.offscreen = nil
		return err
	}
	return nil
}
