package domain

// OverallCategory returns the worst category among categories, which may use
// any spelling NormalizeCategory understands. Unrecognized entries rank below
// I类 and never dominate. An empty collection yields NoData; a collection with
// no recognizable entry yields "".
func OverallCategory(categories []string) Category {
	if len(categories) == 0 {
		return NoData
	}
	worst := 0
	for _, raw := range categories {
		order := NormalizeCategory(raw).Order()
		if order == 0 {
			order = categoryOrder[raw]
		}
		if order > worst {
			worst = order
		}
	}
	return CategoryForOrder(worst)
}

// WorstCategory is OverallCategory for already-typed categories.
func WorstCategory(categories []Category) Category {
	raw := make([]string, len(categories))
	for i, c := range categories {
		raw[i] = string(c)
	}
	return OverallCategory(raw)
}
