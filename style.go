package textlayout

import (
	"image/color"

	"github.com/gogpu/textlayout/text"
)

// Alignment is the horizontal alignment of the sublines of a line.
type Alignment int

const (
	// AlignLeft aligns every subline to the left edge.
	AlignLeft Alignment = iota
	// AlignRight aligns sublines relative to the first subline's right edge.
	AlignRight
	// AlignCenter centers sublines relative to the first subline.
	AlignCenter
	// AlignJustify stretches every subline of a wrapped line to the wrap width.
	AlignJustify
)

// String returns the string representation of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignCenter:
		return "Center"
	case AlignJustify:
		return "Justify"
	default:
		return unknownStr
	}
}

// ReadingDirection is the base direction of a line.
type ReadingDirection int

const (
	// InheritDirection uses the environment's reading direction.
	InheritDirection ReadingDirection = iota
	// LeftToRight is a left-to-right paragraph (bidi level 0).
	LeftToRight
	// RightToLeft is a right-to-left paragraph (bidi level 1).
	RightToLeft
)

// String returns the string representation of the direction.
func (d ReadingDirection) String() string {
	switch d {
	case InheritDirection:
		return "Inherit"
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	default:
		return unknownStr
	}
}

// NumberSubstitution selects how digits are rendered. Explicit modes win;
// SubstituteFromLocale asks the environment's locale and
// SubstituteUserSetting uses the environment's user default.
type NumberSubstitution int

const (
	// SubstituteUserSetting uses the user's setting; it is the zero value.
	SubstituteUserSetting NumberSubstitution = iota
	// SubstituteFromLocale uses the preference of the user's locale.
	SubstituteFromLocale
	// SubstituteNone keeps ASCII digits.
	SubstituteNone
	// SubstituteContextual uses native digits after Arabic-script text.
	SubstituteContextual
	// SubstituteNational always uses the locale's native digits.
	SubstituteNational
	// SubstituteTraditional is contextual with an Arabic context at the
	// start of the line.
	SubstituteTraditional
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// LineWrapMode selects whether a line is wrapped into sublines.
type LineWrapMode int

const (
	// WrapNone keeps every line on one subline.
	WrapNone LineWrapMode = iota
	// WrapNormal breaks at line-break opportunities, falling back to
	// cluster boundaries for words wider than the wrap width.
	WrapNormal
)

// LineWrap configures wrapping of a line.
type LineWrap struct {
	Mode LineWrapMode
	// ShowIndicator reserves room for a wrap mark at the end of sublines.
	ShowIndicator bool
}

// Wraps reports whether wrapping is enabled.
func (w LineWrap) Wraps() bool { return w.Mode != WrapNone }

// LineStyle is the line-level presentation of a line.
type LineStyle struct {
	Alignment          Alignment
	ReadingDirection   ReadingDirection
	NumberSubstitution NumberSubstitution
	Wrap               LineWrap

	// TabWidth is the tab stop distance in pixels. Zero uses the
	// environment's tab width in average character widths of the
	// primary font.
	TabWidth float64

	InhibitSymmetricSwapping          bool
	DisableDeprecatedFormatCharacters bool
}

// RunStyle is the presentation of a styled run. Zero fields inherit from
// the presentation's default run style.
type RunStyle struct {
	FontFamily string
	Properties text.FontProperties
	Size       float64
	SizeAdjust float64

	// LetterSpacing is added to the advance of every cluster, in pixels.
	LetterSpacing float64

	Foreground    color.Color
	Background    color.Color
	Underline     bool
	Strikethrough bool
}

// inherit returns a copy of s with zero fields taken from def.
func (s *RunStyle) inherit(def *RunStyle) *RunStyle {
	var out RunStyle
	if s != nil {
		out = *s
	}
	if def == nil {
		return &out
	}
	if out.FontFamily == "" {
		out.FontFamily = def.FontFamily
	}
	if out.Properties == (text.FontProperties{}) {
		out.Properties = def.Properties
	}
	if out.Size <= 0 {
		out.Size = def.Size
	}
	if out.SizeAdjust <= 0 {
		out.SizeAdjust = def.SizeAdjust
	}
	if out.Foreground == nil {
		out.Foreground = def.Foreground
	}
	if out.Background == nil {
		out.Background = def.Background
	}
	return &out
}

// fontRequest returns the font request of the style.
func (s *RunStyle) fontRequest() text.FontRequest {
	return text.FontRequest{
		Family:     s.FontFamily,
		Properties: s.Properties,
		Size:       s.Size,
		SizeAdjust: s.SizeAdjust,
	}
}

// StyledRun starts Style at Column. A line's styled runs are ordered by
// column and partition the line.
type StyledRun struct {
	Column int
	Style  *RunStyle
}

// Selection is a highlighted character range of a line.
type Selection struct {
	Range      Range
	Foreground color.Color
	Background color.Color
}
