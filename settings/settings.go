// Package settings holds the user and platform settings the layout
// environment depends on: locale, digit substitution, default font, colors
// and tab width.
//
// Settings are stored as YAML or TOML; the format is chosen from the file
// extension.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a settings file format.
type Format int

const (
	// FormatYAML is YAML, read and written with gopkg.in/yaml.v3.
	FormatYAML Format = iota
	// FormatTOML is TOML, read and written with github.com/BurntSushi/toml.
	FormatTOML
)

// String returns the conventional file extension of the format, without dot.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownFormat is returned for file extensions other than
	// .yaml, .yml and .toml.
	ErrUnknownFormat = errors.New("settings: unknown file format")

	// ErrInvalidValue is returned by Validate for out-of-range values.
	ErrInvalidValue = errors.New("settings: invalid value")
)

// Environment variables that override file values.
const (
	EnvLocale            = "TEXTLAYOUT_LOCALE"
	EnvDigitSubstitution = "TEXTLAYOUT_DIGITS"
	EnvFontFamily        = "TEXTLAYOUT_FONT"
)

// Settings is the user-editable settings document.
type Settings struct {
	// Locale is a BCP 47 tag; empty uses the process locale.
	Locale string `yaml:"locale" toml:"locale"`

	// DigitSubstitution is one of none, contextual, national, traditional
	// or locale (use the locale's preference).
	DigitSubstitution string `yaml:"digit_substitution" toml:"digit_substitution"`

	// ReadingDirection is ltr or rtl.
	ReadingDirection string `yaml:"reading_direction" toml:"reading_direction"`

	Font   FontSettings   `yaml:"font" toml:"font"`
	Colors ColorSettings  `yaml:"colors" toml:"colors"`
	Layout LayoutSettings `yaml:"layout" toml:"layout"`
}

// FontSettings selects the document-wide default font.
type FontSettings struct {
	Family string  `yaml:"family" toml:"family"`
	Size   float64 `yaml:"size" toml:"size"`
}

// ColorSettings holds the system colors as #rrggbb or #rrggbbaa strings.
type ColorSettings struct {
	Text         string `yaml:"text" toml:"text"`
	Background   string `yaml:"background" toml:"background"`
	SelectedText string `yaml:"selected_text" toml:"selected_text"`
	Selection    string `yaml:"selection" toml:"selection"`
}

// LayoutSettings holds layout defaults.
type LayoutSettings struct {
	// TabWidth is the tab stop distance in average character widths.
	TabWidth int `yaml:"tab_width" toml:"tab_width"`
	// BufferSize is the number of line layouts kept in memory.
	BufferSize int `yaml:"buffer_size" toml:"buffer_size"`
	// Wrap enables line wrapping by default.
	Wrap bool `yaml:"wrap" toml:"wrap"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		DigitSubstitution: "locale",
		ReadingDirection:  "ltr",
		Font:              FontSettings{Size: 16},
		Colors: ColorSettings{
			Text:         "#000000",
			Background:   "#ffffff",
			SelectedText: "#ffffff",
			Selection:    "#3875d7",
		},
		Layout: LayoutSettings{TabWidth: 8, BufferSize: 256},
	}
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads settings from path on top of Default and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Settings{}, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s := Default()
		s.ApplyEnv()
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f, format)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: %s: %w", path, err)
	}
	s.ApplyEnv()
	return s, nil
}

// Decode reads settings in the given format on top of Default and
// validates them.
func Decode(r io.Reader, format Format) (Settings, error) {
	s := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return Settings{}, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return Settings{}, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return Settings{}, ErrUnknownFormat
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Encode writes s in the given format.
func Encode(w io.Writer, s Settings, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("settings: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("settings: encode toml: %w", err)
		}
		return nil
	}
	return ErrUnknownFormat
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s Settings) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ApplyEnv overrides fields from environment variables.
func (s *Settings) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvLocale); ok {
		s.Locale = v
	}
	if v, ok := os.LookupEnv(EnvDigitSubstitution); ok {
		s.DigitSubstitution = v
	}
	if v, ok := os.LookupEnv(EnvFontFamily); ok {
		s.Font.Family = v
	}
}

// Validate checks enumerations, sizes and colors.
func (s Settings) Validate() error {
	switch strings.ToLower(s.DigitSubstitution) {
	case "", "locale", "none", "contextual", "national", "traditional":
	default:
		return fmt.Errorf("%w: digit_substitution %q", ErrInvalidValue, s.DigitSubstitution)
	}
	switch strings.ToLower(s.ReadingDirection) {
	case "", "ltr", "rtl":
	default:
		return fmt.Errorf("%w: reading_direction %q", ErrInvalidValue, s.ReadingDirection)
	}
	if s.Font.Size < 0 {
		return fmt.Errorf("%w: font size %s", ErrInvalidValue, strconv.FormatFloat(s.Font.Size, 'g', -1, 64))
	}
	if s.Layout.TabWidth < 0 || s.Layout.BufferSize < 0 {
		return fmt.Errorf("%w: layout %+v", ErrInvalidValue, s.Layout)
	}
	for _, c := range []string{s.Colors.Text, s.Colors.Background, s.Colors.SelectedText, s.Colors.Selection} {
		if c == "" {
			continue
		}
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}
