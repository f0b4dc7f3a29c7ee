// Package metrics exposes Prometheus counters for message handling.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricMessagesTotal          = "iou_messages_total"
	MetricMessageDurationSeconds = "iou_message_duration_seconds"
	MetricNotificationsTotal     = "iou_notifications_total"
)

// Message outcomes.
const (
	OutcomeReplied   = "replied"
	OutcomeNoReply   = "no_reply"
	OutcomeRejected  = "rejected" // user error, reported back to the sender
	OutcomeDenied    = "denied"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// Metrics holds the collectors on a private registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	registry *prometheus.Registry

	messagesTotal      *prometheus.CounterVec
	messageDuration    prometheus.Histogram
	notificationsTotal *prometheus.CounterVec
}

// New creates Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricMessagesTotal,
			Help: "Inbound messages by command and outcome.",
		}, []string{"command", "outcome"}),
		messageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricMessageDurationSeconds,
			Help:    "Time spent interpreting one inbound message.",
			Buckets: prometheus.DefBuckets,
		}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNotificationsTotal,
			Help: "Outbound replies by delivery outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.messagesTotal,
		m.messageDuration,
		m.notificationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveMessage records one handled message.
func (m *Metrics) ObserveMessage(command, outcome string, elapsed time.Duration) {
	m.messagesTotal.WithLabelValues(command, outcome).Inc()
	m.messageDuration.Observe(elapsed.Seconds())
}

// ObserveNotification records one delivery attempt; ok is false on failure.
func (m *Metrics) ObserveNotification(ok bool) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	m.notificationsTotal.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
