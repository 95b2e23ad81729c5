package language

import (
	"testing"
)

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"en", true},
		{"EN", true},
		{"eng", true},
		{"fre", true},
		{"ger", true},
		{"german", true},
		{"en-GB", true},
		{"gd", true},
		{"", false},
		{" ", false},
		{"not a language", false},
		{"und", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"eng", "en"},
		{"fre", "fr"},
		{"dut", "nl"},
		{"French", "fr"},
		{"en-GB", "en"},
		{"gd", "gd"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Canonical(tt.input); got != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "eng"},
		{"fr", "fra"},
		{"cy", "cym"},
		{"", "und"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO3(tt.input); got != tt.expected {
				t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
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
		{"eng", "English"},
		{"swedish", "Swedish"},
		{"gd", "Scottish Gaelic"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
