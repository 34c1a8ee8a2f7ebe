package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.OrderPlaced(decimal.RequireFromString("45.00"))
	m.OrderPlaced(decimal.RequireFromString("5.00"))
	m.PlacementFailed("product_not_found")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.placementFailures.WithLabelValues("product_not_found")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.placementFailures.WithLabelValues("persistence")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(decimal.NewFromInt(1))
		m.PlacementFailed("validation")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.OrderPlaced(decimal.NewFromInt(12))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pasar_orders_placed_total 1")
}
