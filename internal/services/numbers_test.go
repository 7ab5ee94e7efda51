package services

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"comma decimal", "121,00", "121.00"},
		{"comma decimal with thousands dot", "1.234,56", "1234.56"},
		{"two thousands dots", "1.234.567,89", "1234567.89"},
		{"canonical form", "121.00", "121.00"},
		{"bare integer", "121", "121.00"},
		{"zero", "0,00", "0.00"},
		{"negative", "-15,50", "-15.50"},
		{"surrounding spaces", "  42,10  ", "42.10"},
		{"euro suffix", "99,95 €", "99.95"},
		{"empty string", "", "0.00"},
		{"garbage", "n/a", "0.00"},
		{"mixed garbage", "12abc", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatNumber(ParseNumber(tt.input))
			if got != tt.expect {
				t.Errorf("ParseNumber(%q) = %s, want %s", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseNumberIdempotent(t *testing.T) {
	inputs := []string{"121,00", "1.234,56", "0,00", "-15,50", "99,95"}
	for _, in := range inputs {
		once := FormatNumber(ParseNumber(in))
		twice := FormatNumber(ParseNumber(once))
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestParseNumberStrict(t *testing.T) {
	if _, err := ParseNumberStrict("12abc"); err == nil {
		t.Error("expected error for unparseable input")
	}
	if _, err := ParseNumberStrict(""); err != nil {
		t.Errorf("empty string should not be an error, got %v", err)
	}
	if d, err := ParseNumberStrict("1.234,50"); err != nil || FormatNumber(d) != "1234.50" {
		t.Errorf("ParseNumberStrict(\"1.234,50\") = %v, %v", d, err)
	}
}
