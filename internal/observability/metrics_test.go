package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.MessagesConsumed.Add(3)
	a.ReadingsClassified.WithLabelValues("TP", "IV类").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.MessagesConsumed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MessagesConsumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.ReadingsClassified.WithLabelValues("TP", "IV类")))
}
