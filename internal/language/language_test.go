package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{" EN ", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"fra", "fr"},
		{"ger", "de"},
		{"English", "en"},
		{"Deutsch", "de"},
		{"español", "es"},
		{"日本語", "ja"},
		// Unknown 2-letter codes pass through.
		{"xy", "xy"},
		{"xyz", ""},
		{"e1", ""},
		{"klingon", ""},
		{"", ""},
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
	tests := map[string]string{
		"":      "Any",
		"en":    "English",
		"chi":   "Chinese",
		"suomi": "Finnish",
		"xy":    "XY",
	}
	for input, want := range tests {
		if got := DisplayName(input); got != want {
			t.Errorf("DisplayName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIndexCoversEveryForm(t *testing.T) {
	for _, e := range languages {
		forms := append([]string{e.code2}, e.code3...)
		forms = append(forms, e.words...)
		for _, form := range forms {
			if got := ToISO2(form); got != e.code2 {
				t.Errorf("ToISO2(%q) = %q, want %q", form, got, e.code2)
			}
		}
	}
}
