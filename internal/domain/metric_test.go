package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeMetric(t *testing.T) {
	tests := []struct {
		label  string
		want   MetricID
		wantOK bool
	}{
		{"pH", MetricPH, true},
		{"pH值", MetricPH, true},
		{"PH(无量纲)", MetricPH, true},
		{"溶解氧", MetricDissolvedOxygen, true},
		{"DO(mg/L)", MetricDissolvedOxygen, true},
		{"高锰酸盐指数", MetricPermanganateIndex, true},
		{"CODMn", MetricPermanganateIndex, true},
		{"cod(mn)", MetricPermanganateIndex, true},
		{"COD_Mn", MetricPermanganateIndex, true},
		{"ＣＯＤ（Ｍｎ）", MetricPermanganateIndex, true},
		{"化学需氧量", MetricChemicalOxygenDemand, true},
		{"CODcr", MetricChemicalOxygenDemand, true},
		{"COD", MetricChemicalOxygenDemand, true},
		{"COD(mg/L)", MetricChemicalOxygenDemand, true},
		{"氨氮", MetricAmmoniaNitrogen, true},
		{"NH3-N", MetricAmmoniaNitrogen, true},
		{"NH₃-N", MetricAmmoniaNitrogen, true},
		{"NH3N", MetricAmmoniaNitrogen, true},
		{"总磷", MetricTotalPhosphorus, true},
		{"TP", MetricTotalPhosphorus, true},
		{"总氮", MetricTotalNitrogen, true},
		{"TN", MetricTotalNitrogen, true},
		{"生化需氧量", MetricBOD, true},
		{"BOD5", MetricBOD, true},
		{"BOD₅", MetricBOD, true},
		{"水温", "", false},
		{"phosphate", "", false},
		{"dosage", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := RecognizeMetric(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetricDisplayName(t *testing.T) {
	for _, m := range Metrics {
		assert.True(t, m.Valid())
		assert.NotEmpty(t, m.DisplayName())
		got, ok := RecognizeMetric(m.DisplayName())
		assert.True(t, ok, m)
		assert.Equal(t, m, got, "display name must round-trip")
	}
	assert.False(t, MetricID("Cu").Valid())
	assert.Equal(t, "Cu", MetricID("Cu").DisplayName())
}
