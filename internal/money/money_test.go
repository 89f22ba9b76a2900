package money

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "100.00", "100"},
		{"integer", "42", "42"},
		{"negative", "-3.5", "-3.5"},
		{"empty_is_zero", "", "0"},
		{"malformed_is_zero", "not-a-number", "0"},
		{"whitespace_is_zero", " 10 ", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Parse(tc.input).String(); got != tc.want {
				t.Errorf("Parse(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestSub(t *testing.T) {
	if got := Sub("100.00", 50, ScaleBalance); got != "50.00" {
		t.Errorf("expected 50.00, got %s", got)
	}
	if got := Sub("100.00", 40.5, ScaleWithdrawal); got != "59.5000000" {
		t.Errorf("expected 59.5000000, got %s", got)
	}
	// No floor: the result goes negative.
	if got := Sub("10.00", 50, ScaleWithdrawal); got != "-40.0000000" {
		t.Errorf("expected -40.0000000, got %s", got)
	}
	// Malformed stored values read as zero.
	if got := Sub("garbage", 5, ScaleBalance); got != "-5.00" {
		t.Errorf("expected -5.00, got %s", got)
	}
	// Float amounts that are awkward in binary stay exact in decimal.
	if got := Sub("0.30", 0.1, ScaleBalance); got != "0.20" {
		t.Errorf("expected 0.20, got %s", got)
	}
}

func TestAdd(t *testing.T) {
	if got := Add("0", 12.5, ScaleBalance); got != "12.50" {
		t.Errorf("expected 12.50, got %s", got)
	}
	if got := Add("99.99", 0.01, ScaleBalance); got != "100.00" {
		t.Errorf("expected 100.00, got %s", got)
	}
}

func TestCovers(t *testing.T) {
	if !Covers("100.00", 100) {
		t.Error("equal amounts should be covered")
	}
	if !Covers("100.01", 100) {
		t.Error("larger stored value should be covered")
	}
	if Covers("99.99", 100) {
		t.Error("smaller stored value should not be covered")
	}
	if Covers("garbage", 1) {
		t.Error("malformed stored value reads as zero")
	}
	if !Covers("garbage", 0) {
		t.Error("zero amount is covered by a zero read")
	}
}
