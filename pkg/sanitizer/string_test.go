package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing", "  please use side door  ", "please use side door"},
		{"internal runs collapsed", "first\t\tvisit,   bring  form", "first visit, bring form"},
		{"newlines become spaces", "line one\nline two", "line one line two"},
		{"already clean", "nothing to do", "nothing to do"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"simple", "Haircut", "haircut"},
		{"spaces to underscores", "Deep Tissue Massage", "deep_tissue_massage"},
		{"punctuation stripped", "Cut & Color!", "cut_color"},
		{"digits kept", "30min express", "30min_express"},
		{"unicode letters kept", "Café Façade", "café_façade"},
		{"collapses runs", "a --- b", "a_b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLabel(tt.input); got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
