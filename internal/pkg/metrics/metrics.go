package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsletter"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Subscribers counts subscription lifecycle events.
type Subscribers struct {
	Events *prometheus.CounterVec
}

// NewSubscribers creates and registers subscriber metrics on the given registry.
func NewSubscribers(reg prometheus.Registerer) *Subscribers {
	m := &Subscribers{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscribers",
			Name:      "events_total",
			Help:      "Subscriber operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.Events)
	return m
}

// Observe records one operation. A nil receiver is a no-op.
func (m *Subscribers) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(operation, outcome).Inc()
}
