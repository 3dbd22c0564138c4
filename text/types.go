package text

import "github.com/go-text/typesetting/language"

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Direction specifies the horizontal text direction of a run.
type Direction int

const (
	// DirectionLTR is left-to-right text (English, French, etc.)
	DirectionLTR Direction = iota
	// DirectionRTL is right-to-left text (Arabic, Hebrew)
	DirectionRTL
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "LTR"
	case DirectionRTL:
		return "RTL"
	default:
		return unknownStr
	}
}

// GlyphID is a glyph index in a font.
type GlyphID uint32

// ScriptUndefined is the script of an analysis that asks the engine to skip
// script-specific shaping. Shaping with it never fails with ErrScriptNotInFont.
const ScriptUndefined = language.Unknown

// ScriptAnalysis is the per-item result of itemization. The bidi level is
// exposed explicitly; the remaining fields are engine state the caller
// passes back unchanged.
type ScriptAnalysis struct {
	// Script is the resolved Unicode script of the item.
	Script language.Script

	// Level is the bidi embedding level. Odd levels are right-to-left.
	Level uint8

	// DigitSubstitute requests native digits for ASCII digits in the item.
	DigitSubstitute bool

	// NativeZero is the native digit zero used when DigitSubstitute is set.
	// Zero keeps ASCII digits.
	NativeZero rune

	// InhibitMirroring disables paired-bracket mirroring in RTL items.
	InhibitMirroring bool

	// IgnoreFormatCharacters renders deprecated format characters
	// (U+206A..U+206F) as invisible zero-width glyphs.
	IgnoreFormatCharacters bool
}

// IsRTL reports whether the item is laid out right-to-left.
func (a ScriptAnalysis) IsRTL() bool { return a.Level&1 == 1 }

// Direction returns the direction implied by the bidi level.
func (a ScriptAnalysis) Direction() Direction {
	if a.IsRTL() {
		return DirectionRTL
	}
	return DirectionLTR
}

// ScriptItem is one itemization result: the analysis applies from Offset up
// to the Offset of the next item.
type ScriptItem struct {
	Offset   int
	Analysis ScriptAnalysis
}

// CharAttr holds the logical (break) attributes of one character.
type CharAttr struct {
	// SoftBreak is set when a line may break before this character.
	SoftBreak bool
	// WhiteSpace is set for breakable white space.
	WhiteSpace bool
	// CharStop is set when a caret may stop before this character.
	CharStop bool
	// WordStop is set at the start of a word.
	WordStop bool
}

// JustifyClass selects how a glyph absorbs extra width during justification.
type JustifyClass uint8

const (
	// JustifyNone glyphs never grow.
	JustifyNone JustifyClass = iota
	// JustifyCharacter glyphs grow by inter-character spacing.
	JustifyCharacter
	// JustifyBlank glyphs are word separators and grow first.
	JustifyBlank
	// JustifyKashida glyphs accept Arabic elongation.
	JustifyKashida
)

// GlyphAttr holds the visual attributes of one glyph.
type GlyphAttr struct {
	// ClusterStart marks the logically first glyph of a cluster.
	ClusterStart bool
	// Diacritic marks a glyph that attaches to its base.
	Diacritic bool
	// ZeroWidth glyphs are placed with a zero advance.
	ZeroWidth bool
	// Justification is the justification class.
	Justification JustifyClass
}

// GlyphOffset is the displacement of a glyph from its pen position.
// DY grows downwards.
type GlyphOffset struct {
	DX, DY float64
}

// Glyphs is the output of Engine.Shape.
//
// Indices and Attrs are in visual order. Clusters has one entry per
// character: the index of the logically first glyph of the cluster that
// contains the character (the lowest index for LTR runs, the highest for
// RTL runs).
type Glyphs struct {
	Indices  []GlyphID
	Clusters []int
	Attrs    []GlyphAttr
}

// Len returns the number of glyphs.
func (g Glyphs) Len() int { return len(g.Indices) }

// DigitSubstitution selects how ASCII digits are rendered.
type DigitSubstitution int

const (
	// DigitsNone renders ASCII digits as is.
	DigitsNone DigitSubstitution = iota
	// DigitsContextual uses native digits after Arabic-script text.
	DigitsContextual
	// DigitsNational always uses the locale's native digits.
	DigitsNational
	// DigitsTraditional is contextual with an Arabic context at paragraph start.
	DigitsTraditional
)

// String returns the string representation of the substitution mode.
func (d DigitSubstitution) String() string {
	switch d {
	case DigitsNone:
		return "None"
	case DigitsContextual:
		return "Contextual"
	case DigitsNational:
		return "National"
	case DigitsTraditional:
		return "Traditional"
	default:
		return unknownStr
	}
}

// ItemizeControl configures itemization for one paragraph.
type ItemizeControl struct {
	// BaseLevel is the paragraph embedding level (0 LTR, 1 RTL).
	BaseLevel uint8
	// InhibitSymmetricSwapping disables bracket mirroring.
	InhibitSymmetricSwapping bool
	// ContextDigits selects digits from the preceding strong script.
	ContextDigits bool
	// DisableDeprecatedFormatCharacters hides U+206A..U+206F.
	DisableDeprecatedFormatCharacters bool
	// NationalZero is the native digit zero for national substitution.
	NationalZero rune
}

// ItemizeState is the initial itemization state of a paragraph.
type ItemizeState struct {
	// DigitSubstitute enables digit substitution.
	DigitSubstitute bool
	// ArabicNumeralContext starts the paragraph in an Arabic digit context.
	ArabicNumeralContext bool
}
