package domain

import (
	"strings"
	"unicode"
)

var (
	romanReplacer = strings.NewReplacer(
		"Ⅰ", "I",
		"Ⅱ", "II",
		"Ⅲ", "III",
		"Ⅳ", "IV",
		"Ⅴ", "V",
	)

	digitToRoman = map[string]string{
		"1": "I",
		"2": "II",
		"3": "III",
		"4": "IV",
		"5": "V",
	}

	romanToCategory = map[string]Category{
		"I":   CategoryI,
		"II":  CategoryII,
		"III": CategoryIII,
		"IV":  CategoryIV,
		"V":   CategoryV,
	}
)

// DefaultSynonyms maps legacy report wording to categories. Keys are compared
// after whitespace removal and lowercasing.
func DefaultSynonyms() map[string]Category {
	return map[string]Category{
		"合格":        CategoryI,
		"qualified": CategoryI,
		"pass":      CategoryI,
	}
}

// CategoryNormalizer converts free-form category text to canonical form.
type CategoryNormalizer struct {
	synonyms map[string]Category
}

// NewCategoryNormalizer creates a normalizer with the given synonym table,
// which may be nil.
func NewCategoryNormalizer(synonyms map[string]Category) *CategoryNormalizer {
	table := make(map[string]Category, len(synonyms))
	for k, v := range synonyms {
		table[strings.ToLower(stripSpace(Normalize(k)))] = v
	}
	return &CategoryNormalizer{synonyms: table}
}

var defaultCategoryNormalizer = NewCategoryNormalizer(DefaultSynonyms())

// NormalizeCategory uses the default synonym table.
func NormalizeCategory(text string) Category {
	return defaultCategoryNormalizer.Normalize(text)
}

// Normalize returns the canonical category for text or "" when unrecognized.
// Roman numerals may be full-width or lower case and digits 1–5 stand for
// I–V. A trailing 类 is optional; anything starting with 劣 is 劣V类.
func (n *CategoryNormalizer) Normalize(text string) Category {
	s := stripSpace(Normalize(text))
	if s == "" {
		return ""
	}
	s = romanReplacer.Replace(s)
	s = strings.TrimSuffix(s, "类")
	if strings.HasPrefix(s, "劣") {
		return CategoryInferiorV
	}
	if roman, ok := digitToRoman[s]; ok {
		s = roman
	}
	if c, ok := romanToCategory[strings.ToUpper(s)]; ok {
		return c
	}
	if c, ok := n.synonyms[strings.ToLower(s)]; ok {
		return c
	}
	return ""
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
