package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{" de ", "de"},
		{"eng", "en"},
		{"spa", "es"},
		{"deu", "de"},
		{"jpn", "ja"},
		{"english", "en"},
		{"French", "fr"},
		{"GERMAN", "de"},
		{"auto", "auto"},
		{"xy", "xy"},
		{"qqqqq", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO2(tt.input); got != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"fra", "French"},
		{"auto", "Auto-detect"},
		{"", "Unknown"},
		{"qqqqq", "QQQQQ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for code, want := range map[string]bool{
		"en":      true,
		"spanish": true,
		"auto":    true,
		"xy":      false,
	} {
		if got := Supported(code); got != want {
			t.Errorf("Supported(%q) = %v, want %v", code, got, want)
		}
	}
}
