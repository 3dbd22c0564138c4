package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrBufferTooSmall is returned by Engine.Itemize and Engine.Shape when
	// the caller-provided capacity cannot hold the result. Callers retry
	// with a larger capacity.
	ErrBufferTooSmall = errors.New("text: output buffer too small")

	// ErrScriptNotInFont is returned by Engine.Shape when the font has no
	// glyphs for the script of the run.
	ErrScriptNotInFont = errors.New("text: script not supported by font")

	// ErrNoFont is returned by a FontResolver that has no font at all.
	ErrNoFont = errors.New("text: no font available")

	// ErrInvalidSize is returned when a font is requested at a non-positive size.
	ErrInvalidSize = errors.New("text: font size must be positive")
)

// ShapingError reports an engine failure for a character range. It wraps the
// underlying engine error, so errors.Is(err, ErrScriptNotInFont) still works.
type ShapingError struct {
	Engine string
	Begin  int
	End    int
	Err    error
}

func (e *ShapingError) Error() string {
	return fmt.Sprintf("text: %s engine failed on [%d,%d): %v", e.Engine, e.Begin, e.End, e.Err)
}

func (e *ShapingError) Unwrap() error { return e.Err }
