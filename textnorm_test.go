package budscan

import (
	"testing"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "Girl Scout Cookies!!", want: "girl scout cookies"},
		{in: "  OG--Kush ", want: "og kush"},
		{in: "GSC #4", want: "gsc 4"},
		{in: "Ｂｌｕｅ Ｄｒｅａｍ", want: "blue dream"},
		{in: "", want: ""},
		{in: "***", want: ""},
	}

	for _, tc := range tests {
		if got := normalizeName(tc.in); got != tc.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsNormalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		haystack, needle string
		want             bool
	}{
		{haystack: "og kush mints", needle: "kush", want: true},
		{haystack: "og kush mints", needle: "kush mints", want: true},
		{haystack: "og kushmints", needle: "kush", want: false},
		{haystack: "og kush", needle: "", want: false},
		{haystack: "", needle: "kush", want: false},
	}

	for _, tc := range tests {
		if got := containsNormalized(tc.haystack, tc.needle); got != tc.want {
			t.Errorf("containsNormalized(%q, %q) = %v, want %v", tc.haystack, tc.needle, got, tc.want)
		}
	}
}

func TestContainsName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, name string
		want       bool
	}{
		{text: "gelato41 live resin", name: "gelato", want: true},
		{text: "og kushmints", name: "kush", want: true},
		{text: "og kush", name: "og", want: false},
		{text: "wedding cake", name: "blue dream", want: false},
		{text: "", name: "kush", want: false},
	}

	for _, tc := range tests {
		if got := containsName(tc.text, tc.name); got != tc.want {
			t.Errorf("containsName(%q, %q) = %v, want %v", tc.text, tc.name, got, tc.want)
		}
	}
}

func TestMutualContains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{a: "blue dream 3 5g", b: "blue dream", want: true},
		{a: "gelato41 live resin", b: "gelato", want: true},
		{a: "sour diesel", b: "sour diesel reserve", want: true},
		{a: "og", b: "og kush", want: false},
		{a: "wedding cake", b: "blue dream", want: false},
	}

	for _, tc := range tests {
		if got := mutualContains(tc.a, tc.b); got != tc.want {
			t.Errorf("mutualContains(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "OG KUSH", want: "OG Kush"},
		{in: "girl scout cookies", want: "Girl Scout Cookies"},
		{in: "gsc", want: "GSC"},
		{in: "COMMERCE CITY KUSH", want: "Commerce City Kush"},
	}

	for _, tc := range tests {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	got := cleanText("  Blue\tDream \r\n\n  THC\x00 20% ")
	if want := "Blue Dream\nTHC 20%"; got != want {
		t.Errorf("cleanText() = %q, want %q", got, want)
	}
	if got := textLines("\n \n"); got != nil {
		t.Errorf("textLines(blank) = %q, want nil", got)
	}
}
