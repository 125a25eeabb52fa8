package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tiktalk_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tiktalk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_connections_total",
			Help: "Total WebSocket connections accepted",
		},
	)

	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tiktalk_connected_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	ConnectionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_connections_rejected_total",
			Help: "Connections rejected at the global cap",
		},
	)

	// Room metrics
	RoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_rooms_created_total",
			Help: "Total rooms created",
		},
	)

	RoomsCleaned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_rooms_cleaned_total",
			Help: "Empty rooms reclaimed after the grace period",
		},
	)

	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tiktalk_active_rooms",
			Help: "Currently live rooms",
		},
	)

	// Message metrics
	MessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_messages_posted_total",
			Help: "Total messages broadcast to rooms",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tiktalk_rate_limit_hits_total",
			Help: "Messages dropped by the per-user rate limit",
		},
	)
)
