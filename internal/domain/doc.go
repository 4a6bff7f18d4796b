// Package domain classifies surface-water monitoring readings into the
// regulatory category scale and aggregates them into an overall rating.
//
// # Category Scale
//
// Six ordered grades, best to worst:
//
//	I类 < II类 < III类 < IV类 < V类 < 劣V类
//
// 劣V类 ("inferior to V") is the complement of V类. An observation's overall
// category is the worst of its per-metric categories. [NoData] is returned
// when there is nothing to aggregate.
//
// # Threshold Ladders
//
// Upper bounds are inclusive: a value exactly on a published bound lands in
// the better category. Dissolved oxygen is the only lower-is-worse metric and
// uses inclusive lower bounds instead.
//
//	DO     ≥7.5 I | ≥6 II | ≥5 III | ≥3 IV | ≥2 V | else 劣V
//	CODMn  ≤2 I | ≤4 II | ≤6 III | ≤10 IV | ≤15 V | else 劣V
//	NH3-N  ≤0.15 I | ≤0.5 II | ≤1 III | ≤1.5 IV | ≤2 V | else 劣V
//	TP     river ≤0.02 I | ≤0.1 II | ≤0.2 III | ≤0.3 IV | ≤0.4 V
//	       lake  ≤0.015 I | ≤0.025 II | ≤0.05 III | ≤0.1 IV | ≤0.2 V
//	TN     ≤0.2 I | ≤0.5 II | ≤1 III | ≤1.5 IV | ≤2 V | else 劣V
//
// Two metrics do not fit the generic ladder and are kept as named exceptions:
//
//	pH     6.0–9.0 inclusive is I类, anything else 劣V类 (two-sided, no II–V)
//	CODCr  ≤15 I | ≤20 III | ≤30 IV | ≤40 V | else 劣V (I and II share ≤15,
//	       so II类 is unreachable); BOD5 has the same shape at 3/4/6/10.
//
// Only total phosphorus depends on the water body type. The type is resolved
// by precedence: an explicit caller value, then Station Registry membership
// of the station name, then the classifier's configured default.
//
// # Input Conventions
//
// Column headers arrive in many spellings ("CODₘₙ", "高锰酸盐指数(mg/L)",
// "NH3-N", "总磷（TP）"). They are NFKC-normalized, stripped of whitespace and
// lowercased before matching; see [RecognizeMetric].
//
// Readings are parsed strictly by the classifiers: anything that is not a
// finite number yields the empty category. Field exports often contain
// missing-value tokens ("--", "未检出", "NA") and annotations ("<0.05",
// "0.12mg/L"); callers clean those with [CoerceReading] first.
//
// Station names are compared after [NormalizeStationName], which removes
// parenthetical qualifiers and leading serial numbers, so "3.朱家尖(西)" and
// "朱家尖" refer to the same station.
package domain
