package metric

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

const namespace = "cmsadmin"

// Outcome labels for RequestsTotal.
const (
	OutcomeSuccess         = "success"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeTransport       = "transport"
	OutcomeApplication     = "application"
)

// Registry holds all client metrics.
type Registry struct {
	registry *prometheus.Registry

	// RequestsTotal counts API operations by op, resource and outcome.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration observes API operation latency, including failures.
	RequestDuration *prometheus.HistogramVec
	// SessionChanges counts session store transitions by kind
	// (login, logout, restore).
	SessionChanges *prometheus.CounterVec
}

// NewRegistry creates a registry with the client instruments and the Go
// runtime collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API operations by operation, resource and outcome.",
		}, []string{"op", "resource", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "API operation latency in seconds.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"op", "resource"}),
		SessionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_changes_total",
			Help:      "Session store transitions by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.SessionChanges,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

var (
	global     *Registry
	globalOnce sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Registerer exposes the underlying registry for components that register
// their own instruments.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for collection.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveRequest records one finished API operation.
func (r *Registry) ObserveRequest(op, resource, outcome string, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(op, resource, outcome).Inc()
	r.RequestDuration.WithLabelValues(op, resource).Observe(elapsed.Seconds())
}

// IncSessionChange records a session transition.
func (r *Registry) IncSessionChange(kind string) {
	r.SessionChanges.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteText writes the metric families whose name starts with prefix
// (all when empty) in the text exposition format.
func (r *Registry) WriteText(w io.Writer, prefix string) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if prefix != "" && !hasPrefix(mf.GetName(), prefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
