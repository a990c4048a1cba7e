package metric

import "github.com/prometheus/client_golang/prometheus"

// SessionCollector reports whether a session is currently held. It reads
// the state at scrape time instead of tracking changes.
type SessionCollector struct {
	held func() bool
	desc *prometheus.Desc
}

// NewSessionCollector reports whether held() says a session is present.
func NewSessionCollector(held func() bool) *SessionCollector {
	return &SessionCollector{
		held: held,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "authenticated"),
			"1 when a session is held, 0 otherwise.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	v := 0.0
	if c.held() {
		v = 1
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v)
}

var _ prometheus.Collector = (*SessionCollector)(nil)
