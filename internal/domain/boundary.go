package domain

import "strconv"

// Boundary is one labeled threshold line for charts.
type Boundary struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// VisualBoundary adds the display color of the line.
type VisualBoundary struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// pH bound labels replace category names on the two-sided scale.
const (
	PHLowerLabel = "pH下限"
	PHUpperLabel = "pH上限"
)

// ladderFor returns the published ladder of metric. pH has none.
func ladderFor(metric MetricID, water WaterBodyType) []step {
	switch metric {
	case MetricDissolvedOxygen:
		return oxygenLadder
	case MetricPermanganateIndex:
		return permanganateLadder
	case MetricChemicalOxygenDemand:
		return codCrLadder
	case MetricAmmoniaNitrogen:
		return ammoniaLadder
	case MetricTotalPhosphorus:
		if water == WaterLake {
			return lakeTPLadder
		}
		return riverTPLadder
	case MetricTotalNitrogen:
		return nitrogenLadder
	case MetricBOD:
		return bodLadder
	default:
		return nil
	}
}

// Boundaries lists the thresholds of metric from the best category down.
// water only matters for total phosphorus; unspecified means river.
func Boundaries(metric MetricID, water WaterBodyType) []Boundary {
	if metric == MetricPH {
		return []Boundary{{PHLowerLabel, phLower}, {PHUpperLabel, phUpper}}
	}
	ladder := ladderFor(metric, water)
	if ladder == nil {
		return nil
	}
	out := make([]Boundary, len(ladder))
	for i, s := range ladder {
		out[i] = Boundary{Label: string(s.category), Value: s.bound}
	}
	return out
}

// VisualBoundaries colors each boundary by its label, falling back to the
// metric's own color and then to NeutralColor. A nil palette means
// DefaultPalette.
func VisualBoundaries(metric MetricID, water WaterBodyType, palette Palette) []VisualBoundary {
	if palette == nil {
		palette = DefaultPalette()
	}
	bounds := Boundaries(metric, water)
	if bounds == nil {
		return nil
	}
	out := make([]VisualBoundary, len(bounds))
	for i, b := range bounds {
		out[i] = VisualBoundary{
			Label: b.Label,
			Value: b.Value,
			Color: palette.Color(b.Label, string(metric)),
		}
	}
	return out
}

// StandardsRow is one line of the printable standards table.
type StandardsRow struct {
	Name      string
	Metric    MetricID
	WaterType WaterBodyType
	Cells     []string // one per entry of Categories
}

var standardsLayout = []struct {
	name   string
	metric MetricID
	water  WaterBodyType
}{
	{"pH值", MetricPH, WaterRiver},
	{"溶解氧", MetricDissolvedOxygen, WaterRiver},
	{"高锰酸盐指数", MetricPermanganateIndex, WaterRiver},
	{"化学需氧量", MetricChemicalOxygenDemand, WaterRiver},
	{"氨氮", MetricAmmoniaNitrogen, WaterRiver},
	{"总磷（河流）", MetricTotalPhosphorus, WaterRiver},
	{"总磷（湖库）", MetricTotalPhosphorus, WaterLake},
	{"总氮", MetricTotalNitrogen, WaterRiver},
	{"生化需氧量", MetricBOD, WaterRiver},
}

// StandardsTable renders the threshold of every metric and category as text,
// e.g. "≤0.5" or ">2". 劣V类 is always the complement of V类.
func StandardsTable() []StandardsRow {
	rows := make([]StandardsRow, 0, len(standardsLayout))
	for _, l := range standardsLayout {
		rows = append(rows, StandardsRow{
			Name:      l.name,
			Metric:    l.metric,
			WaterType: l.water,
			Cells:     standardsCells(l.metric, l.water),
		})
	}
	return rows
}

func standardsCells(metric MetricID, water WaterBodyType) []string {
	cells := make([]string, len(Categories))
	if metric == MetricPH {
		for i := range Categories[:5] {
			cells[i] = "6.0–9.0"
		}
		cells[5] = "<6.0 或 >9.0"
		return cells
	}

	ladder := ladderFor(metric, water)
	within, beyond := "≤", ">"
	if metric == MetricDissolvedOxygen {
		within, beyond = "≥", "<"
	}
	for i, s := range ladder {
		cells[i] = within + formatBound(s.bound)
	}
	cells[5] = beyond + formatBound(ladder[len(ladder)-1].bound)
	return cells
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
