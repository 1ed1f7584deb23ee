package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses runs of whitespace into a
// single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}

// NormalizeBib uppercases a bib number and strips everything except letters
// and digits, so "a-12 " and "A12" collide as intended.
func NormalizeBib(bib string) string {
	var result strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(bib)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
