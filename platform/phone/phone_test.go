package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"local guinean mobile", "622 12 34 56", "+224622123456"},
		{"already e164", "+224622123456", "+224622123456"},
		{"international with spaces", "+224 622 12 34 56", "+224622123456"},
		{"double-zero international prefix", "00224 622 12 34 56", "+224622123456"},
		{"invalid number returns trimmed input", "  123  ", "123"},
		{"garbage returns trimmed input", "not a number", "not a number"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
