// Package stringutil provides query-text normalization utilities.
// Input is primarily Chinese, often typed with full-width punctuation,
// so normalization folds width before anything else.
package stringutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Normalize lower-cases s, folds full-width characters to their
// half-width forms, replaces every non letter/digit rune with a space
// and collapses runs of whitespace into single spaces.
//
// Example:
//
//	Normalize("门诊报销比例是多少？") returns "门诊报销比例是多少"
//	Normalize("Ｈｅｌｌｏ，小医!") returns "hello 小医"
func Normalize(s string) string {
	s = width.Narrow.String(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// StripPunct lower-cases s and replaces punctuation and symbols with
// spaces without collapsing whitespace. Used where token positions
// relative to the original text matter.
func StripPunct(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
}

// RuneLen returns the number of runes in s.
// Token length filters operate on runes, not bytes: a single Chinese
// character is 3 bytes but must count as length 1.
func RuneLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
