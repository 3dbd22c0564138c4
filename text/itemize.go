package text

import (
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// itemize splits text into items of uniform bidi level and script.
// Both engines share it.
func itemize(text []rune, ctl ItemizeControl, state ItemizeState, maxItems int) ([]ScriptItem, error) {
	if len(text) == 0 {
		return nil, nil
	}

	levels := bidiLevels(text, ctl.BaseLevel)
	scripts := resolveInheritedScripts(detectScripts(text))

	items := make([]ScriptItem, 0, 4)
	context := language.Unknown
	if state.ArabicNumeralContext {
		context = language.Arabic
	}
	start := 0
	for i := 1; i <= len(text); i++ {
		if i < len(text) && levels[i] == levels[start] && scripts[i] == scripts[start] {
			continue
		}
		script := scripts[start]
		if script.Strong() {
			context = script
		}
		a := ScriptAnalysis{
			Script:                 script,
			Level:                  levels[start],
			InhibitMirroring:       ctl.InhibitSymmetricSwapping,
			IgnoreFormatCharacters: ctl.DisableDeprecatedFormatCharacters,
		}
		if zero := ctl.digitZero(state, context); zero != 0 {
			a.DigitSubstitute = true
			a.NativeZero = zero
		}
		items = append(items, ScriptItem{Offset: start, Analysis: a})
		start = i
	}

	if len(items) > maxItems {
		return nil, ErrBufferTooSmall
	}
	return items, nil
}

// bidiLevels returns one embedding level per rune relative to base.
// Runs of the base direction keep the base level, runs of the opposite
// direction are raised by one.
func bidiLevels(text []rune, base uint8) []uint8 {
	levels := make([]uint8, len(text))
	for i := range levels {
		levels[i] = base
	}

	dir := bidi.LeftToRight
	if base&1 == 1 {
		dir = bidi.RightToLeft
	}

	p := bidi.Paragraph{}
	if _, err := p.SetString(string(text), bidi.DefaultDirection(dir)); err != nil {
		slogger().Debug("bidi: paragraph rejected", "err", err)
		return levels
	}
	ordering, err := p.Order()
	if err != nil {
		slogger().Debug("bidi: ordering failed", "err", err)
		return levels
	}

	// run.Pos() returns RUNE indices (start, end inclusive)
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		startRune, endRune := run.Pos()
		lvl := base
		switch run.Direction() {
		case bidi.RightToLeft:
			if base&1 == 0 {
				lvl = base + 1
			}
		case bidi.LeftToRight:
			if base&1 == 1 {
				lvl = base + 1
			}
		}
		for j := startRune; j <= endRune && j < len(levels); j++ {
			levels[j] = lvl
		}
	}
	return levels
}

func detectScripts(text []rune) []language.Script {
	scripts := make([]language.Script, len(text))
	for i, r := range text {
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
			scripts[i] = language.Inherited
			continue
		}
		scripts[i] = language.LookupScript(r)
	}
	return scripts
}

// resolveInheritedScripts gives Inherited characters the script of their base
// and Common characters the script of their context.
func resolveInheritedScripts(scripts []language.Script) []language.Script {
	resolved := make([]language.Script, len(scripts))
	copy(resolved, scripts)

	last := language.Common
	for i := range resolved {
		if resolved[i] == language.Inherited {
			resolved[i] = last
		} else if resolved[i] != language.Common {
			last = resolved[i]
		}
	}

	last = language.Common
	for i := range resolved {
		if resolved[i] != language.Common {
			last = resolved[i]
			continue
		}
		resolved[i] = resolveCommonScript(last, findNextConcreteScript(resolved, i+1))
	}
	return resolved
}

// findNextConcreteScript finds the next non-Common, non-Inherited script starting at index start.
func findNextConcreteScript(scripts []language.Script, start int) language.Script {
	for j := start; j < len(scripts); j++ {
		if scripts[j] != language.Common && scripts[j] != language.Inherited {
			return scripts[j]
		}
	}
	return language.Common
}

// resolveCommonScript determines what script a Common character should inherit.
func resolveCommonScript(prev, next language.Script) language.Script {
	switch {
	case prev != language.Common:
		return prev
	case next != language.Common:
		return next
	default:
		return language.Common
	}
}
