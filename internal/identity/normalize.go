package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes characters and removes combining marks,
// so "Amélie" and "Amelie" normalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var leadingArticles = []string{"the ", "a ", "an "}

// NormalizeTitle reduces a title to its canonical matching form:
// lowercase, diacritics stripped, punctuation removed, whitespace
// collapsed, and a single leading English article dropped.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))
	if stripped, _, err := transform.String(diacriticStripper, lowered); err == nil {
		lowered = stripped
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")

	for _, article := range leadingArticles {
		if strings.HasPrefix(collapsed, article) {
			collapsed = strings.TrimPrefix(collapsed, article)
			break
		}
	}
	return collapsed
}
