package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestInventoryMetricsGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.SetBloodType("O-", 4, 2, true)
	m.SetBloodType("A+", 25, 0, false)
	m.AddExpired(3)
	m.AddExpired(0)
	m.IncAlert("low_stock")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchGaugeValue(mfs, "bloodbank_inventory_units_available", "blood_type", "O-")
	require.NoError(t, err)
	require.Equal(t, 4.0, got)

	got, err = fetchGaugeValue(mfs, "bloodbank_inventory_blood_type_critical", "blood_type", "O-")
	require.NoError(t, err)
	require.Equal(t, 1.0, got)

	got, err = fetchGaugeValue(mfs, "bloodbank_inventory_blood_type_critical", "blood_type", "A+")
	require.NoError(t, err)
	require.Equal(t, 0.0, got)

	expired := findMetricFamily(mfs, "bloodbank_inventory_units_expired_total")
	require.NotNil(t, expired)
	require.Equal(t, 3.0, expired.GetMetric()[0].GetCounter().GetValue())

	alerts, err := fetchCounterValue(mfs, "bloodbank_alerts_raised_total", "type", "low_stock")
	require.NoError(t, err)
	require.Equal(t, 1.0, alerts)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/inventory/summary", 200, 20*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "bloodbank_http_requests_total", "route", "/api/v1/inventory/summary")
	require.NoError(t, err)
	require.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "bloodbank_http_requests_total", "route", "unmatched")
	require.NoError(t, err)
	require.Equal(t, 1.0, got)
}
