package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryOrder(t *testing.T) {
	for i, c := range Categories {
		assert.Equal(t, i+1, c.Order(), c)
		assert.True(t, c.Valid(), c)
		assert.Equal(t, c, CategoryForOrder(i+1))
	}
	assert.Zero(t, Category("").Order())
	assert.Zero(t, NoData.Order())
	assert.False(t, NoData.Valid())
	assert.False(t, Category("合格").Valid(), "synonym ranks but is not canonical")
	assert.Equal(t, 1, Category("合格").Order())
	assert.Empty(t, CategoryForOrder(7))
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"I类", CategoryI},
		{"Ⅱ类", CategoryII},
		{"Ⅲ", CategoryIII},
		{"iii类", CategoryIII},
		{"ⅳ", CategoryIV},
		{"4", CategoryIV},
		{"5类", CategoryV},
		{" V 类 ", CategoryV},
		{"劣Ⅴ类", CategoryInferiorV},
		{"劣V", CategoryInferiorV},
		{"劣五类", CategoryInferiorV},
		{"合格", CategoryI},
		{"Qualified", CategoryI},
		{"6", ""},
		{"VI类", ""},
		{"类", ""},
		{"", ""},
		{"无有效数据", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.in))
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	for _, in := range []string{"Ⅲ类", "3", "劣五", "合格", "  ii ", "x"} {
		once := NormalizeCategory(in)
		assert.Equal(t, once, NormalizeCategory(string(once)), in)
	}
}

func TestCategoryNormalizer_CustomSynonyms(t *testing.T) {
	n := NewCategoryNormalizer(map[string]Category{"不 合格": CategoryInferiorV, "Good": CategoryII})

	assert.Equal(t, CategoryInferiorV, n.Normalize("不合格"))
	assert.Equal(t, CategoryII, n.Normalize("GOOD"))
	assert.Empty(t, n.Normalize("合格"), "defaults are not implied")
	assert.Equal(t, CategoryIII, n.Normalize("Ⅲ类"))

	assert.Equal(t, CategoryIII, NewCategoryNormalizer(nil).Normalize("3"))
}

func TestOverallCategory(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want Category
	}{
		{"empty", nil, NoData},
		{"worst wins", []string{"II类", "IV类", "I类"}, CategoryIV},
		{"mixed spellings", []string{"Ⅱ", "5", "合格"}, CategoryV},
		{"inferior dominates", []string{"劣V类", "I类"}, CategoryInferiorV},
		{"unrecognized entries ignored", []string{"II类", "", "??"}, CategoryII},
		{"only synonyms", []string{"合格"}, CategoryI},
		{"nothing recognized", []string{"", "unknown"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallCategory(tt.in))
		})
	}
}

func TestOverallCategoryOrderIndependent(t *testing.T) {
	a := OverallCategory([]string{"I类", "III类", "II类"})
	b := OverallCategory([]string{"II类", "I类", "III类"})
	assert.Equal(t, a, b)
	assert.Equal(t, CategoryIII, a)
}

func TestWorstCategory(t *testing.T) {
	assert.Equal(t, CategoryV, WorstCategory([]Category{CategoryI, CategoryV, CategoryIII}))
	assert.Equal(t, NoData, WorstCategory(nil))
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#FF0000", p.Color(string(CategoryInferiorV), ""))
	assert.Equal(t, "#FF0000", p.Color(PHLowerLabel, "pH"), "falls back to the metric color")
	assert.Equal(t, NeutralColor, p.Color("unknown", "TP"))

	merged := p.Merge(Palette{string(CategoryI): "#000000", "TP": "#123456"})
	assert.Equal(t, "#000000", merged.Color(string(CategoryI), ""))
	assert.Equal(t, "#CFFFFF", p.Color(string(CategoryI), ""), "merge does not mutate the receiver")
	assert.Equal(t, "#123456", merged.Color("unknown", "TP"))
}
