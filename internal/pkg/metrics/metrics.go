// Package metrics holds the Prometheus instruments for upstream calls and bot actions.
//
// Instruments are registered on a caller-supplied registry so tests can use a
// fresh one and the health server can expose exactly what the bot registered.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK        = "ok"
	ResultNotFound  = "not_found"
	ResultError     = "error"
	ResultMalformed = "malformed"
)

// Metrics is the set of instruments the bot records into.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	BotActions       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the instruments and registers them, plus Go runtime and process
// collectors, on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchbot_upstream_requests_total",
			Help: "Requests to the sports-data API by endpoint and result.",
		}, []string{"endpoint", "result"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "matchbot_upstream_request_duration_seconds",
			Help:    "Sports-data API latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		BotActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchbot_bot_actions_total",
			Help: "Handled bot commands and callbacks by result.",
		}, []string{"action", "result"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.BotActions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpstream records one upstream call. Safe on a nil receiver.
func (m *Metrics) ObserveUpstream(endpoint, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, result).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

// ObserveAction records one handled bot action. Safe on a nil receiver.
func (m *Metrics) ObserveAction(action, result string) {
	if m == nil {
		return
	}
	m.BotActions.WithLabelValues(action, result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
