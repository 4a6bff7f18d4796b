package domain

// Category is a canonical water-quality grade such as "III类".
// The empty Category means no valid classification was possible.
type Category string

const (
	CategoryI         Category = "I类"
	CategoryII        Category = "II类"
	CategoryIII       Category = "III类"
	CategoryIV        Category = "IV类"
	CategoryV         Category = "V类"
	CategoryInferiorV Category = "劣V类"

	// NoData is the overall category of an empty category collection.
	NoData Category = "无有效数据"
)

// Categories lists every grade from best to worst.
var Categories = []Category{
	CategoryI, CategoryII, CategoryIII, CategoryIV, CategoryV, CategoryInferiorV,
}

// categoryOrder ranks raw category text. "合格" ("qualified") is a legacy
// report value that counts as I类.
var categoryOrder = map[string]int{
	"合格":                      1,
	string(CategoryI):         1,
	string(CategoryII):        2,
	string(CategoryIII):       3,
	string(CategoryIV):        4,
	string(CategoryV):         5,
	string(CategoryInferiorV): 6,
}

var orderToCategory = map[int]Category{
	1: CategoryI,
	2: CategoryII,
	3: CategoryIII,
	4: CategoryIV,
	5: CategoryV,
	6: CategoryInferiorV,
}

// Order returns the severity rank of c: 1 for I类 through 6 for 劣V类, and 0
// for anything that is not a canonical category.
func (c Category) Order() int {
	return categoryOrder[string(c)]
}

// Valid reports whether c is one of the six grades.
func (c Category) Valid() bool {
	return c != "" && orderToCategory[c.Order()] == c
}

func (c Category) String() string { return string(c) }

// CategoryForOrder maps a severity rank back to its grade. Unknown ranks
// return the empty Category.
func CategoryForOrder(order int) Category {
	return orderToCategory[order]
}

// Palette maps category (or metric) keys to "#RRGGBB" display colors.
type Palette map[string]string

// NeutralColor is used when neither the label nor the metric has a color.
const NeutralColor = "#999999"

// DefaultPalette returns a fresh copy of the built-in display colors.
// The "pH" key colors the synthetic pH bound lines.
func DefaultPalette() Palette {
	return Palette{
		"合格":                      "#CFFFFF",
		string(CategoryI):         "#CFFFFF",
		string(CategoryII):        "#8FFFFF",
		string(CategoryIII):       "#7FFF7F",
		string(CategoryIV):        "#FFFF6F",
		string(CategoryV):         "#FFC000",
		string(CategoryInferiorV): "#FF0000",
		"pH":                      "#FF0000",
	}
}

// Merge returns a copy of p with every entry of overrides applied on top.
func (p Palette) Merge(overrides Palette) Palette {
	out := make(Palette, len(p)+len(overrides))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Color looks up key and falls back to fallbackKey, then to NeutralColor.
func (p Palette) Color(key, fallbackKey string) string {
	if c, ok := p[key]; ok {
		return c
	}
	if c, ok := p[fallbackKey]; ok {
		return c
	}
	return NeutralColor
}
