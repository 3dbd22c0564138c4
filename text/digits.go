package text

import (
	"github.com/go-text/typesetting/language"
	xlanguage "golang.org/x/text/language"
)

// ApplyDigitSubstitution configures ctl and state for the given mode.
//
// None clears substitution. Contextual substitutes after Arabic-script text.
// National always substitutes with ctl.NationalZero. Traditional behaves as
// contextual with an Arabic context at the start of the paragraph.
func ApplyDigitSubstitution(mode DigitSubstitution, ctl *ItemizeControl, state *ItemizeState) {
	switch mode {
	case DigitsContextual:
		state.DigitSubstitute = true
		ctl.ContextDigits = true
		state.ArabicNumeralContext = false
	case DigitsNational:
		state.DigitSubstitute = true
		ctl.ContextDigits = false
		state.ArabicNumeralContext = false
	case DigitsTraditional:
		state.DigitSubstitute = true
		state.ArabicNumeralContext = true
	default:
		state.DigitSubstitute = false
	}
}

// digitZero returns the native zero for an item whose preceding strong
// script is context, or 0 when the item keeps ASCII digits.
func (c ItemizeControl) digitZero(state ItemizeState, context language.Script) rune {
	if !state.DigitSubstitute {
		return 0
	}
	if c.ContextDigits || state.ArabicNumeralContext {
		if !isArabicScript(context) {
			return 0
		}
		if c.NationalZero == 0x06F0 {
			return c.NationalZero
		}
		return 0x0660
	}
	return c.NationalZero
}

func isArabicScript(s language.Script) bool {
	switch s {
	case language.Arabic, language.Syriac, language.Thaana, language.Nko:
		return true
	}
	return false
}

// nativeZeros maps a base language to the first of its native decimal digits.
var nativeZeros = map[string]rune{
	"ar": 0x0660,
	"fa": 0x06F0, "ur": 0x06F0, "ps": 0x06F0,
	"hi": 0x0966, "mr": 0x0966, "ne": 0x0966, "sa": 0x0966,
	"bn": 0x09E6, "as": 0x09E6,
	"pa": 0x0A66,
	"gu": 0x0AE6,
	"or": 0x0B66,
	"ta": 0x0BE6,
	"te": 0x0C66,
	"kn": 0x0CE6,
	"ml": 0x0D66,
	"th": 0x0E50,
	"lo": 0x0ED0,
	"bo": 0x0F20,
	"my": 0x1040,
	"km": 0x17E0,
	"mn": 0x1810,
}

// NativeZero returns the native digit zero of the locale, or 0 when the
// locale uses ASCII digits.
func NativeZero(locale xlanguage.Tag) rune {
	base, _ := locale.Base()
	return nativeZeros[base.String()]
}

// LocaleDigitSubstitution returns the digit substitution a locale prefers:
// contextual for Arabic-script languages, none otherwise.
func LocaleDigitSubstitution(locale xlanguage.Tag) DigitSubstitution {
	base, _ := locale.Base()
	switch base.String() {
	case "ar", "fa", "ur", "ps", "ckb", "sd", "ug":
		return DigitsContextual
	}
	return DigitsNone
}

// substituteDigits returns text with ASCII digits replaced by the native
// digits of a. The input is returned unchanged when nothing is substituted.
func substituteDigits(text []rune, a ScriptAnalysis) []rune {
	if !a.DigitSubstitute || a.NativeZero == 0 {
		return text
	}
	var out []rune
	for i, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		if out == nil {
			out = make([]rune, len(text))
			copy(out, text)
		}
		out[i] = a.NativeZero + (r - '0')
	}
	if out == nil {
		return text
	}
	return out
}
