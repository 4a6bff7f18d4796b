package domain

import (
	"strconv"
	"strings"
)

// missingTokens are the spellings field exports use for "no measurement".
var missingTokens = map[string]bool{
	"": true, "--": true, "—": true, "-": true, "–": true, "－": true,
	"nan": true, "none": true, "null": true, "na": true, "n/a": true,
	"nd": true, "n.d.": true, "未检出": true, "空": true, "无": true,
}

// CoerceReading cleans an exported cell such as "<0.05", "0.12mg/L" or
// "未检出" into a number. Missing-value tokens and text with no digits return
// false. Comparison marks are dropped, so "<0.05" reads as 0.05.
func CoerceReading(raw string) (float64, bool) {
	s := strings.ToLower(Normalize(raw))
	if missingTokens[s] {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == 'e':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, finite(v)
}

// FormatReading renders a coerced reading the way it is written back into
// reports: shortest exact decimal.
func FormatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
