// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxLength = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9_-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
	valid           = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// From lowercases s, strips accents, joins words with hyphens and truncates to MaxLength.
// Non-Latin letters without an ASCII decomposition are dropped.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

func IsValid(s string) bool {
	return len(s) <= MaxLength && valid.MatchString(s)
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
