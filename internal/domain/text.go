package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// parenRe matches one innermost parenthetical group. Full-width
	// parentheses are already folded to ASCII by NFKC.
	parenRe = regexp.MustCompile(`\([^()]*\)`)

	// stationPrefixRe matches serial-number prefixes such as "3.", "01-" or "(2)".
	stationPrefixRe = regexp.MustCompile(`^[\p{N}\p{P}\p{S}\s]+`)

	labelReplacer = strings.NewReplacer(
		"（", "(",
		"）", ")",
		"：", ":",
		"ₘ", "m",
		"ₙ", "n",
	)
)

// isInvisible reports zero-width and non-whitespace control characters.
func isInvisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u200e', '\u200f', '\u2060', '\ufeff':
		return true
	}
	return unicode.IsControl(r) && !unicode.IsSpace(r)
}

// Normalize applies NFKC, removes zero-width and control characters, collapses
// whitespace runs (including the ideographic space) to one ASCII space and
// trims. It is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := norm.NFKC.String(text)
	if strings.IndexFunc(s, isInvisible) >= 0 {
		s = strings.Map(func(r rune) rune {
			if isInvisible(r) {
				return -1
			}
			return r
		}, s)
		// Removing a joiner can expose a new composable pair.
		s = norm.NFKC.String(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeMetricLabel prepares a column header for metric recognition:
// half-width punctuation, ASCII subscripts, no whitespace, lower case.
func NormalizeMetricLabel(text string) string {
	s := labelReplacer.Replace(Normalize(text))
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	// Dropping spaces can put a base letter next to a combining mark.
	return norm.NFKC.String(strings.ToLower(s))
}

// NormalizeStationName reduces a station name to its registry key: no
// parenthetical qualifiers, no leading serial number, lower case.
func NormalizeStationName(text string) string {
	s := Normalize(text)
	for {
		stripped := parenRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = stationPrefixRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	// Stripping qualifiers can put a base letter next to a combining mark.
	return norm.NFKC.String(s)
}
