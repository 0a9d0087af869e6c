package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soluna_sessions_started_total",
			Help: "Total number of sessions started",
		},
		[]string{"type"},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soluna_messages_sent_total",
			Help: "Total number of user messages accepted",
		},
	)

	ChatFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soluna_chat_failures_total",
			Help: "Total number of remote chat calls replaced by the apology message",
		},
	)

	InsightsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soluna_insights_generated_total",
			Help: "Total number of insight cards generated, by source",
		},
		[]string{"source"},
	)

	ArchiveEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soluna_archive_evictions_total",
			Help: "Total number of archived sessions evicted by the capacity cap",
		},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soluna_ws_connections",
			Help: "Number of live websocket connections",
		},
	)
)
