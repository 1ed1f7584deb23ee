package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  Ana Petrova  ", "Ana Petrova"},
		{"internal run of spaces", "Ana    Petrova", "Ana Petrova"},
		{"tabs and newlines collapse", "Ana\t\nPetrova", "Ana Petrova"},
		{"already normalized", "Ana Petrova", "Ana Petrova"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimAndNormalizeIdempotent(t *testing.T) {
	inputs := []string{"  Ana   Petrova ", "x", "", " a\tb "}
	for _, input := range inputs {
		once := TrimAndNormalize(input)
		twice := TrimAndNormalize(once)
		if once != twice {
			t.Errorf("TrimAndNormalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ana@Example.COM ", "ana@example.com"},
		{"ana@example.com", "ana@example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeBib(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase with dash", "a-12", "A12"},
		{"trailing space", "A12 ", "A12"},
		{"already normalized", "A12", "A12"},
		{"only punctuation", "--- ", ""},
		{"empty", "", ""},
		{"mixed", " b 07.c", "B07C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBib(tt.input); got != tt.want {
				t.Errorf("NormalizeBib(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
