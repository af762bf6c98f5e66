// Package metrics provides Prometheus counters for message handling.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder counts planes, state transitions, validation failures,
// draft saves and inbound message types.
type PrometheusRecorder struct {
	messagesTotal           *prometheus.CounterVec
	transitionsTotal        *prometheus.CounterVec
	validationFailuresTotal *prometheus.CounterVec
	draftsTotal             *prometheus.CounterVec
	inboundTotal            *prometheus.CounterVec
}

// NewPrometheusRecorder registers the collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	p := &PrometheusRecorder{
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nordia_messages_total",
				Help: "Messages handled by the engine, by plane",
			},
			[]string{"plane"},
		),
		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nordia_transitions_total",
				Help: "Conversation state transitions",
			},
			[]string{"from", "to"},
		),
		validationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nordia_validation_failures_total",
				Help: "Rejected setup answers, by field",
			},
			[]string{"field"},
		),
		draftsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nordia_drafts_total",
				Help: "Message drafts persisted, by status",
			},
			[]string{"status"},
		),
		inboundTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nordia_inbound_total",
				Help: "Inbound webhook messages, by WhatsApp message type",
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		p.messagesTotal,
		p.transitionsTotal,
		p.validationFailuresTotal,
		p.draftsTotal,
		p.inboundTotal,
	)

	return p
}

func (p *PrometheusRecorder) ObservePlane(plane string) {
	p.messagesTotal.WithLabelValues(plane).Inc()
}

func (p *PrometheusRecorder) ObserveTransition(from, to string) {
	p.transitionsTotal.WithLabelValues(from, to).Inc()
}

func (p *PrometheusRecorder) ObserveValidationFailure(field string) {
	p.validationFailuresTotal.WithLabelValues(field).Inc()
}

func (p *PrometheusRecorder) ObserveDraft(saved bool) {
	status := "saved"
	if !saved {
		status = "failed"
	}
	p.draftsTotal.WithLabelValues(status).Inc()
}

func (p *PrometheusRecorder) ObserveInbound(messageType string) {
	if messageType == "" {
		messageType = "unknown"
	}
	p.inboundTotal.WithLabelValues(messageType).Inc()
}
