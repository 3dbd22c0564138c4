package text

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionLTR, "LTR"},
		{DirectionRTL, "RTL"},
		{Direction(99), unknownStr},
	}
	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestScriptAnalysisDirection(t *testing.T) {
	tests := []struct {
		level uint8
		want  Direction
	}{
		{0, DirectionLTR},
		{1, DirectionRTL},
		{2, DirectionLTR},
		{3, DirectionRTL},
	}
	for _, tt := range tests {
		a := ScriptAnalysis{Level: tt.level}
		if a.Direction() != tt.want || a.IsRTL() != (tt.want == DirectionRTL) {
			t.Errorf("level %d: direction %v, want %v", tt.level, a.Direction(), tt.want)
		}
	}
}

func TestDigitSubstitutionString(t *testing.T) {
	tests := []struct {
		mode DigitSubstitution
		want string
	}{
		{DigitsNone, "None"},
		{DigitsContextual, "Contextual"},
		{DigitsNational, "National"},
		{DigitsTraditional, "Traditional"},
		{DigitSubstitution(-1), unknownStr},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGlyphsLen(t *testing.T) {
	var g Glyphs
	if g.Len() != 0 {
		t.Errorf("empty Len = %d", g.Len())
	}
	g.Indices = make([]GlyphID, 3)
	if g.Len() != 3 {
		t.Errorf("Len = %d, want 3", g.Len())
	}
}
