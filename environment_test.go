package textlayout

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/textlayout/settings"
	"github.com/gogpu/textlayout/text"
)

type envCounter struct{ n int }

func (c *envCounter) EnvironmentChanged(*Environment) { c.n++ }

func TestEnvironmentDefaults(t *testing.T) {
	env := testEnvironment(t)
	c := env.Colors()
	if c.Text != (color.NRGBA{A: 0xff}) || c.Selection != (color.NRGBA{R: 0x38, G: 0x75, B: 0xd7, A: 0xff}) {
		t.Errorf("colors = %+v", c)
	}
	if env.TabWidth() != 8 {
		t.Errorf("TabWidth = %d, want 8", env.TabWidth())
	}
	if env.ReadingDirection() != LeftToRight {
		t.Errorf("ReadingDirection = %v", env.ReadingDirection())
	}
	if env.Locale().String() != "en-US" {
		t.Errorf("Locale = %v", env.Locale())
	}
	if env.NationalZero() != 0 {
		t.Errorf("NationalZero = %U", env.NationalZero())
	}
}

func TestEnvironmentDigitSubstitution(t *testing.T) {
	s := settings.Default()
	s.Locale = "ar-EG"
	env, err := NewEnvironment(s)
	if err != nil {
		t.Fatal(err)
	}
	if env.NationalZero() != 0x0660 {
		t.Errorf("NationalZero = %U", env.NationalZero())
	}
	tests := []struct {
		mode NumberSubstitution
		want text.DigitSubstitution
	}{
		{SubstituteUserSetting, text.DigitsContextual},
		{SubstituteFromLocale, text.DigitsContextual},
		{SubstituteNone, text.DigitsNone},
		{SubstituteNational, text.DigitsNational},
		{SubstituteTraditional, text.DigitsTraditional},
	}
	for _, tt := range tests {
		if got := env.digitSubstitution(tt.mode); got != tt.want {
			t.Errorf("digitSubstitution(%d) = %v, want %v", tt.mode, got, tt.want)
		}
	}

	s.DigitSubstitution = "national"
	if err := env.Update(s); err != nil {
		t.Fatal(err)
	}
	if got := env.digitSubstitution(SubstituteUserSetting); got != text.DigitsNational {
		t.Errorf("user setting = %v, want national", got)
	}
}

func TestEnvironmentUpdate(t *testing.T) {
	env := testEnvironment(t)
	c := &envCounter{}
	env.AddListener(c)

	s := env.Settings()
	s.ReadingDirection = "rtl"
	s.Layout.TabWidth = 4
	if err := env.Update(s); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.n != 1 || env.ReadingDirection() != RightToLeft || env.TabWidth() != 4 {
		t.Errorf("after Update: n=%d dir=%v tab=%d", c.n, env.ReadingDirection(), env.TabWidth())
	}

	bad := s
	bad.Colors.Text = "red"
	if err := env.Update(bad); err == nil {
		t.Error("Update accepted an invalid color")
	}
	bad = s
	bad.Locale = "not a locale!"
	if err := env.Update(bad); err == nil {
		t.Error("Update accepted an invalid locale")
	}
	if c.n != 1 || env.TabWidth() != 4 {
		t.Error("a rejected update changed the environment")
	}

	// Refresh returns to the settings the environment was created with.
	if err := env.Refresh(); err != nil {
		t.Fatal(err)
	}
	if env.TabWidth() != 8 || c.n != 2 {
		t.Errorf("after Refresh: tab=%d n=%d", env.TabWidth(), c.n)
	}

	env.RemoveListener(c)
	_ = env.Refresh()
	if c.n != 2 {
		t.Error("removed listener was notified")
	}
}

func TestEnvironmentFromFile(t *testing.T) {
	t.Setenv(settings.EnvLocale, "en-GB")
	path := filepath.Join(t.TempDir(), "textlayout.toml")
	s := settings.Default()
	s.Layout.TabWidth = 2
	if err := settings.Save(path, s); err != nil {
		t.Fatal(err)
	}
	env, err := NewEnvironmentFromFile(path)
	if err != nil {
		t.Fatalf("NewEnvironmentFromFile: %v", err)
	}
	if env.TabWidth() != 2 || env.Locale().String() != "en-GB" {
		t.Errorf("tab=%d locale=%v", env.TabWidth(), env.Locale())
	}

	s.Layout.TabWidth = 3
	if err := settings.Save(path, s); err != nil {
		t.Fatal(err)
	}
	if err := env.Refresh(); err != nil {
		t.Fatal(err)
	}
	if env.TabWidth() != 3 {
		t.Errorf("tab after Refresh = %d, want 3", env.TabWidth())
	}

	if err := os.WriteFile(path, []byte("layout = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := env.Refresh(); err == nil {
		t.Error("Refresh accepted a malformed file")
	}
}

func TestParseLocaleFromProcess(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "de_DE.UTF-8")
	tag, err := parseLocale("")
	if err != nil {
		t.Fatal(err)
	}
	if tag.String() != "de-DE" {
		t.Errorf("locale = %v, want de-DE", tag)
	}

	t.Setenv("LANG", "C")
	if tag, _ := parseLocale(""); tag.String() != "en" {
		t.Errorf("locale = %v, want en", tag)
	}
}
