package util

import "testing"

func TestContains(t *testing.T) {
	choices := []string{"<24h", "1-3d", "4-7d"}
	if !Contains("1-3d", choices) {
		t.Fatal("expected 1-3d to be contained")
	}
	if Contains("1-3D", choices) {
		t.Fatal("matching is case-sensitive")
	}
	if Contains("8d", choices) {
		t.Fatal("expected 8d to be missing")
	}
	if Contains("", nil) {
		t.Fatal("empty list contains nothing")
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  John   Doe  ", "John Doe"},
		{"John Doe", "John Doe"},
		{"John\t\tDoe", "John Doe"},
		{"   ", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
