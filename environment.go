package textlayout

import (
	"fmt"
	"image/color"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/gogpu/textlayout/settings"
	"github.com/gogpu/textlayout/text"
)

// SystemColors are the colors used where a style does not set one.
type SystemColors struct {
	Text         color.NRGBA
	Background   color.NRGBA
	SelectedText color.NRGBA
	Selection    color.NRGBA
}

// EnvironmentListener is notified after Environment.Refresh or
// Environment.Update changed the settings.
type EnvironmentListener interface {
	EnvironmentChanged(env *Environment)
}

// Environment is the platform state layouts depend on: locale, digit
// substitution preferences, system colors and the default font.
// It replaces process-wide setting caches; the application calls Refresh
// when it detects a change.
type Environment struct {
	load      func() (settings.Settings, error)
	current   settings.Settings
	colors    SystemColors
	locale    language.Tag
	listeners []EnvironmentListener
}

// NewEnvironment creates an environment over fixed settings.
func NewEnvironment(s settings.Settings) (*Environment, error) {
	e := &Environment{load: func() (settings.Settings, error) { return s, nil }}
	if err := e.apply(s); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEnvironmentFromFile creates an environment that reads path on
// creation and on every Refresh.
func NewEnvironmentFromFile(path string) (*Environment, error) {
	e := &Environment{load: func() (settings.Settings, error) { return settings.Load(path) }}
	s, err := e.load()
	if err != nil {
		return nil, err
	}
	if err := e.apply(s); err != nil {
		return nil, err
	}
	return e, nil
}

// DefaultEnvironment returns an environment over settings.Default.
func DefaultEnvironment() *Environment {
	e, err := NewEnvironment(settings.Default())
	if err != nil {
		panic(err) // defaults are valid
	}
	return e
}

func (e *Environment) apply(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	var colors SystemColors
	for _, c := range []struct {
		dst *color.NRGBA
		src string
		def color.NRGBA
	}{
		{&colors.Text, s.Colors.Text, color.NRGBA{A: 0xff}},
		{&colors.Background, s.Colors.Background, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{&colors.SelectedText, s.Colors.SelectedText, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{&colors.Selection, s.Colors.Selection, color.NRGBA{R: 0x38, G: 0x75, B: 0xd7, A: 0xff}},
	} {
		*c.dst = c.def
		if c.src == "" {
			continue
		}
		v, err := settings.ParseColor(c.src)
		if err != nil {
			return err
		}
		*c.dst = v
	}

	locale, err := parseLocale(s.Locale)
	if err != nil {
		return err
	}
	e.current = s
	e.colors = colors
	e.locale = locale
	return nil
}

// parseLocale parses a BCP 47 tag. An empty tag reads LC_ALL, LC_MESSAGES
// and LANG, and falls back to English.
func parseLocale(tag string) (language.Tag, error) {
	if tag == "" {
		for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
			v := os.Getenv(name)
			if v == "" || v == "C" || v == "POSIX" {
				continue
			}
			v, _, _ = strings.Cut(v, ".")
			if t, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
				return t, nil
			}
		}
		return language.English, nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return language.Und, fmt.Errorf("%w: locale %q: %v", settings.ErrInvalidValue, tag, err)
	}
	return t, nil
}

// Refresh reloads the settings and notifies listeners.
func (e *Environment) Refresh() error {
	s, err := e.load()
	if err != nil {
		return err
	}
	return e.Update(s)
}

// Update replaces the settings and notifies listeners. Later calls to
// Refresh return to the environment's source.
func (e *Environment) Update(s settings.Settings) error {
	if err := e.apply(s); err != nil {
		return err
	}
	slogger().Debug("environment changed", "locale", e.locale.String())
	for _, l := range slices.Clone(e.listeners) {
		l.EnvironmentChanged(e)
	}
	return nil
}

// AddListener registers l.
func (e *Environment) AddListener(l EnvironmentListener) {
	e.listeners = append(e.listeners, l)
}

// RemoveListener unregisters l.
func (e *Environment) RemoveListener(l EnvironmentListener) {
	e.listeners = slices.DeleteFunc(e.listeners, func(x EnvironmentListener) bool { return x == l })
}

// Settings returns the current settings.
func (e *Environment) Settings() settings.Settings { return e.current }

// Colors returns the system colors.
func (e *Environment) Colors() SystemColors { return e.colors }

// Locale returns the user's locale.
func (e *Environment) Locale() language.Tag { return e.locale }

// ReadingDirection returns the user's default reading direction.
func (e *Environment) ReadingDirection() ReadingDirection {
	if strings.EqualFold(e.current.ReadingDirection, "rtl") {
		return RightToLeft
	}
	return LeftToRight
}

// LocaleDigitSubstitution returns the digit substitution the locale prefers.
func (e *Environment) LocaleDigitSubstitution() text.DigitSubstitution {
	return text.LocaleDigitSubstitution(e.locale)
}

// UserDigitSubstitution returns the digit substitution the user selected.
func (e *Environment) UserDigitSubstitution() text.DigitSubstitution {
	switch strings.ToLower(e.current.DigitSubstitution) {
	case "none":
		return text.DigitsNone
	case "contextual":
		return text.DigitsContextual
	case "national":
		return text.DigitsNational
	case "traditional":
		return text.DigitsTraditional
	}
	return e.LocaleDigitSubstitution()
}

// NationalZero returns the native digit zero of the locale, or 0.
func (e *Environment) NationalZero() rune { return text.NativeZero(e.locale) }

// TabWidth returns the tab stop distance in average character widths.
func (e *Environment) TabWidth() int {
	if e.current.Layout.TabWidth <= 0 {
		return 8
	}
	return e.current.Layout.TabWidth
}

// digitSubstitution resolves the mode of a line style: an explicit mode,
// else the locale preference, else the user setting.
func (e *Environment) digitSubstitution(n NumberSubstitution) text.DigitSubstitution {
	switch n {
	case SubstituteNone:
		return text.DigitsNone
	case SubstituteContextual:
		return text.DigitsContextual
	case SubstituteNational:
		return text.DigitsNational
	case SubstituteTraditional:
		return text.DigitsTraditional
	case SubstituteFromLocale:
		return e.LocaleDigitSubstitution()
	}
	return e.UserDigitSubstitution()
}
