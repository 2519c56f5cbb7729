package eventsink

import (
	"context"

	"github.com/DIMO-Network/messenger-webhook-api/internal/services/dispatcher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsSink counts observed messaging events.
type MetricsSink struct {
	events *prometheus.CounterVec
}

// NewMetricsSink registers the sink's collectors with reg.
func NewMetricsSink(reg prometheus.Registerer) *MetricsSink {
	return &MetricsSink{
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "messenger_webhook",
				Name:      "messaging_events_total",
				Help:      "Messaging events read from accepted page batches.",
			},
			[]string{"has_text"},
		),
	}
}

func (m *MetricsSink) Record(_ context.Context, obs dispatcher.Observation) error {
	hasText := "false"
	if obs.Text != "" {
		hasText = "true"
	}
	m.events.WithLabelValues(hasText).Inc()
	return nil
}
