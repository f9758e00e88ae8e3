// Package match reconciles parsed media signals against library entities.
package match

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle reduces a title to its matching form: lowercase, accents
// folded, articles stripped, punctuation removed, whitespace collapsed. Two
// files naming the same album slightly differently normalize to the same
// string, which is what the scanner groups on.
func NormalizeTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	s = stripLeadingArticle(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// GroupKey builds the identity key the scanner groups files under: the
// normalized title plus the year when one is known.
func GroupKey(title string, year int) string {
	key := NormalizeTitle(title)
	if year > 0 {
		key += " " + strconv.Itoa(year)
	}
	return key
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}
