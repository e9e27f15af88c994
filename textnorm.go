package budscan

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// cleanText NFKC-normalizes OCR output, drops control characters except
// newlines, trims every line and removes blank lines.
func cleanText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if r == '\t' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)

	lines := strings.Split(normed, "\n")
	kept := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// textLines splits cleaned text into its non-empty lines.
func textLines(text string) []string {
	cleaned := cleanText(text)
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "\n")
}

// normalizeName lower-cases s and collapses every run of non-alphanumeric
// characters into a single space.
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(norm.NFKC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// containsNormalized reports whether haystack contains needle as a run of
// whole words. Both arguments must already be normalized with normalizeName.
func containsNormalized(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

// containsName reports whether the normalized name is a substring of the
// normalized text. Unlike containsNormalized it matches names glued to a
// suffix, as in "gelato41".
func containsName(text, name string) bool {
	return len(name) >= minContainedLen && strings.Contains(text, name)
}

// minContainedLen keeps a stray OCR fragment like "og" from counting as a name.
const minContainedLen = 3

// mutualContains reports whether either normalized string contains the other.
func mutualContains(a, b string) bool {
	return containsName(a, b) || containsName(b, a)
}

// upperTokens are kept upper-case when title-casing.
var upperTokens = map[string]bool{
	"og": true, "gsc": true, "gg": true, "mac": true, "thc": true, "cbd": true,
}

// titleCase title-cases a strain name, keeping well-known acronyms upper-case.
func titleCase(s string) string {
	// A Caser is stateful, so each call gets its own.
	titled := cases.Title(language.English).String(strings.ToLower(s))
	words := strings.Fields(titled)
	for i, w := range words {
		if upperTokens[strings.ToLower(w)] {
			words[i] = strings.ToUpper(w)
		}
	}
	return strings.Join(words, " ")
}

// isAllCaps reports whether s has at least one letter and no lower-case letters.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// hasDigit reports whether s contains any decimal digit.
func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// isLetters reports whether s consists only of letters (apostrophes allowed).
func isLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' {
			return false
		}
	}
	return true
}
