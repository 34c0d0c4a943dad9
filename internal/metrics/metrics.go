// Package metrics exports token lifecycle counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darmiel/checkin/internal/core"
)

const namespace = "checkin"

var _ core.Observer = (*Metrics)(nil)

type Metrics struct {
	registry *prometheus.Registry

	issued         prometheus.Counter
	validated      *prometheus.CounterVec
	recordFailures prometheus.Counter
}

// New creates the collectors and registers them, together with the Go runtime
// and process collectors, on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "issued_total",
			Help:      "Total number of attendance tokens issued",
		}),
		validated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "token",
			Name:      "validations_total",
			Help:      "Total number of token validations by outcome",
		}, []string{"outcome"}),
		recordFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "attendance",
			Name:      "record_failures_total",
			Help:      "Accepted check-ins the attendance store failed to persist",
		}),
	}

	// pre-create the outcome series so they show up as zero
	for _, o := range []core.Outcome{core.OutcomeAccepted, core.OutcomeExpiredOrReused, core.OutcomeInvalid} {
		m.validated.WithLabelValues(o.String())
	}

	m.registry.MustRegister(
		m.issued,
		m.validated,
		m.recordFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) TokenIssued() {
	m.issued.Inc()
}

func (m *Metrics) TokenValidated(outcome core.Outcome) {
	m.validated.WithLabelValues(outcome.String()).Inc()
}

func (m *Metrics) RecordFailed() {
	m.recordFailures.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
