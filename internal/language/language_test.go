package language

import (
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"EN", "en"},
		{"es", "es"},
		// 3-letter codes convert
		{"eng", "en"},
		{"spa", "es"},
		{"fra", "fr"},
		{"deu", "de"},
		{"jpn", "ja"},
		// bibliographic forms
		{"fre", "fr"},
		{"ger", "de"},
		{"dut", "nl"},
		{"chi", "zh"},
		// regional tags keep the base
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"zh-Hant", "zh"},
		// Word forms
		{"english", "en"},
		{"French", "fr"},
		{"GERMAN", "de"},
		// Unknown
		{"x1", ""},
		{"123", ""},
		{"not a language", ""},
		// Empty
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToISO2(tt.input)
			if result != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	for _, auto := range []string{"", "auto", "AUTO", " und "} {
		got, err := Normalize(auto)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", auto, err)
		}
		if got != "" {
			t.Fatalf("Normalize(%q) = %q, want auto-detect", auto, got)
		}
	}
	got, err := Normalize("Spanish")
	if err != nil || got != "es" {
		t.Fatalf("Normalize(Spanish) = %q, %v", got, err)
	}
	if _, err := Normalize("klingon!"); err == nil {
		t.Fatal("expected error for unknown language")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"fre", "French"},
		{"de-AT", "German"},
		{"", "Auto-detect"},
		{"12", "12"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
