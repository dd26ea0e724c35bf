package sentiment

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"positive", "Positive"},
		{"  negative ", "Negative"},
		{"POSITIVE", "POSITIVE"},
		{"nEUTRAL", "NEUTRAL"},
		{"éclair", "Éclair"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{1, "100%"},
		{0.873, "87%"},
		{0.875, "88%"},
		{0.29, "29%"},
		{-0.1, ""},
		{1.01, ""},
	}
	for _, tc := range cases {
		if got := FormatConfidence(tc.in); got != tc.want {
			t.Fatalf("FormatConfidence(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
