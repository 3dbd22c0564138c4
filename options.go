package textlayout

import "github.com/gogpu/textlayout/surface"

// defaultBufferSize is the layout cache capacity when neither an option
// nor the settings give one.
const defaultBufferSize = 256

// RendererOption configures a TextRenderer during creation.
//
// Example:
//
//	r, err := textlayout.NewTextRenderer(doc, pres, engine, fonts, nil,
//	    textlayout.WithBufferSize(64),
//	    textlayout.WithLayoutWidth(640),
//	    textlayout.WithDoubleBuffering(true))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for TextRenderer creation.
type rendererOptions struct {
	bufferSize      int
	autoRepair      bool
	doubleBuffering bool
	layoutWidth     float64
	backend         string
}

// defaultRendererOptions returns the options used when none are given.
func defaultRendererOptions(env *Environment) rendererOptions {
	size := env.Settings().Layout.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	return rendererOptions{
		bufferSize: size,
		autoRepair: true,
		backend:    surface.ImageBackend,
	}
}

// WithBufferSize sets the number of line layouts kept in memory.
func WithBufferSize(n int) RendererOption {
	return func(o *rendererOptions) {
		o.bufferSize = n
	}
}

// WithAutoRepair sets whether layouts invalidated by document edits are
// rebuilt at once. It is on by default.
func WithAutoRepair(on bool) RendererOption {
	return func(o *rendererOptions) {
		o.autoRepair = on
	}
}

// WithDoubleBuffering makes RenderLine draw every subline into an
// off-screen surface and copy it to the target.
func WithDoubleBuffering(on bool) RendererOption {
	return func(o *rendererOptions) {
		o.doubleBuffering = on
	}
}

// WithLayoutWidth sets the width wrapped lines are broken to.
func WithLayoutWidth(w float64) RendererOption {
	return func(o *rendererOptions) {
		o.layoutWidth = w
	}
}

// WithSurfaceBackend selects the surface backend used for off-screen
// drawing. See surface.Register.
func WithSurfaceBackend(name string) RendererOption {
	return func(o *rendererOptions) {
		o.backend = name
	}
}
