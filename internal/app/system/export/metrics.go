// internal/app/system/export/metrics.go
package export

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for PDF exports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	// Export outcomes by role and result ("ok", "cached", "error")
	Outcomes *prometheus.CounterVec

	// Duration of a full rasterise-paginate-assemble run
	Duration prometheus.Histogram

	// Pages per produced document
	Pages prometheus.Histogram

	// Chrome renders currently running
	InFlight prometheus.Gauge
}

// NewMetrics registers the export metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trainingplanner_export_total",
			Help: "PDF exports by role and outcome",
		}, []string{"role", "outcome"}),

		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trainingplanner_export_duration_seconds",
			Help:    "Duration of PDF export including rasterisation",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		}),

		Pages: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "trainingplanner_export_pages",
			Help:    "Pages per exported PDF",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),

		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "trainingplanner_export_in_flight",
			Help: "Chrome renders currently in progress",
		}),
	}
}

// IncrementOutcome records an export outcome.
func (m *Metrics) IncrementOutcome(role, outcome string) {
	if m != nil {
		m.Outcomes.WithLabelValues(role, outcome).Inc()
	}
}

// ObserveDuration records a completed export's duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m != nil {
		m.Duration.Observe(d.Seconds())
	}
}

// ObservePages records a produced document's page count.
func (m *Metrics) ObservePages(n int) {
	if m != nil {
		m.Pages.Observe(float64(n))
	}
}

func (m *Metrics) renderStarted() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) renderDone() {
	if m != nil {
		m.InFlight.Dec()
	}
}
