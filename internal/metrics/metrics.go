// Package metrics exposes Prometheus instruments for scheduling use cases.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderramin/chantier/internal/domain"
)

// Metrics holds all Prometheus metrics for chantier.
type Metrics struct {
	UseCases        *prometheus.CounterVec
	UseCaseDuration *prometheus.HistogramVec
	Warnings        *prometheus.CounterVec
	ConflictDays    prometheus.Gauge
	AlertsEmitted   *prometheus.CounterVec
}

// New creates the instruments and registers them with registry.
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		UseCases: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chantier_use_case_total",
				Help: "Total number of service use case executions",
			},
			[]string{"use_case", "success"},
		),
		UseCaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chantier_use_case_duration_seconds",
				Help:    "Duration of service use cases",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"use_case"},
		),
		Warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chantier_schedule_warnings_total",
				Help: "Scheduling warnings by kind",
			},
			[]string{"kind"},
		),
		ConflictDays: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chantier_conflict_days",
				Help: "Days with overlapping trades in the last checked schedule",
			},
		),
		AlertsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chantier_alerts_emitted_total",
				Help: "Alerts created or rescheduled by type",
			},
			[]string{"alert_type"},
		),
	}
}

// NewRegistry creates a private registry with metrics registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, New(reg)
}

func (m *Metrics) RecordUseCase(name string, success bool, d time.Duration) {
	outcome := "false"
	if success {
		outcome = "true"
	}
	m.UseCases.WithLabelValues(name, outcome).Inc()
	m.UseCaseDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (m *Metrics) RecordWarnings(kinds []domain.WarningKind) {
	for _, k := range kinds {
		m.Warnings.WithLabelValues(string(k)).Inc()
	}
}

func (m *Metrics) RecordAlerts(types []domain.AlertType) {
	for _, t := range types {
		m.AlertsEmitted.WithLabelValues(string(t)).Inc()
	}
}

// WriteToTextfile dumps the registry in the node-exporter textfile format.
func WriteToTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
