package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ChatMetrics contains Prometheus metrics for the chat service.
type ChatMetrics struct {
	MessagesCreated   prometheus.Counter
	ReactionsRecorded *prometheus.CounterVec
	SessionsConnected prometheus.Gauge
	BroadcastsTotal   prometheus.Counter
}

// NewChatMetrics creates and registers chat metrics with the given registerer.
func NewChatMetrics(registerer prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		MessagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "murmur_messages_created_total",
			Help: "Total number of messages appended to the log",
		}),
		ReactionsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "murmur_reactions_recorded_total",
				Help: "Total number of reactions recorded",
			},
			[]string{"type"}, // like/dislike
		),
		SessionsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "murmur_ws_sessions",
			Help: "Current number of connected WebSocket sessions",
		}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "murmur_ws_broadcasts_total",
			Help: "Total number of delta envelopes fanned out to sessions",
		}),
	}

	registerer.MustRegister(
		m.MessagesCreated,
		m.ReactionsRecorded,
		m.SessionsConnected,
		m.BroadcastsTotal,
	)

	return m
}

// MessageCreated increments the message counter.
func (m *ChatMetrics) MessageCreated() {
	m.MessagesCreated.Inc()
}

// ReactionRecorded increments the reaction counter for the given type.
func (m *ChatMetrics) ReactionRecorded(reactionType string) {
	m.ReactionsRecorded.WithLabelValues(reactionType).Inc()
}
