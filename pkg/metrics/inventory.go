package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics exposes per blood type stock gauges refreshed by the
// inventory alert job.
type InventoryMetrics struct {
	available *prometheus.GaugeVec
	expiring  *prometheus.GaugeVec
	critical  *prometheus.GaugeVec
	expired   prometheus.Counter
	alerts    *prometheus.CounterVec
}

func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	m := &InventoryMetrics{
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_units_available",
			Help:      "Available units per blood type.",
		}, []string{"blood_type"}),
		expiring: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_units_expiring",
			Help:      "Available units inside the expiry horizon per blood type.",
		}, []string{"blood_type"}),
		critical: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_blood_type_critical",
			Help:      "1 when the blood type is below the critical threshold.",
		}, []string{"blood_type"}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_units_expired_total",
			Help:      "Units moved to expired by the sweep job.",
		}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Alerts raised by background jobs, by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.available, m.expiring, m.critical, m.expired, m.alerts)
	return m
}

// SetBloodType publishes the latest snapshot for one blood type.
func (m *InventoryMetrics) SetBloodType(bloodType string, units, expiring int, critical bool) {
	if m == nil || m.available == nil {
		return
	}
	m.available.WithLabelValues(bloodType).Set(float64(units))
	m.expiring.WithLabelValues(bloodType).Set(float64(expiring))
	flag := 0.0
	if critical {
		flag = 1
	}
	m.critical.WithLabelValues(bloodType).Set(flag)
}

func (m *InventoryMetrics) AddExpired(n int) {
	if m == nil || m.expired == nil || n <= 0 {
		return
	}
	m.expired.Add(float64(n))
}

func (m *InventoryMetrics) IncAlert(alertType string) {
	if m == nil || m.alerts == nil {
		return
	}
	m.alerts.WithLabelValues(normalizeLabel(alertType)).Inc()
}
