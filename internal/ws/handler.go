package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/broker"
	"github.com/Shashank-Karan/Tik-Talk/internal/config"
	"github.com/Shashank-Karan/Tik-Talk/internal/metrics"
)

// Handler upgrades HTTP requests to WebSocket connections and wires each one
// to a broker session.
type Handler struct {
	hub      *Hub
	registry *broker.Registry
	limiter  *broker.RateLimiter
	limits   broker.Limits
	upgrader websocket.Upgrader
	maxFrame int64
	log      zerolog.Logger
}

// NewHandler creates the /ws endpoint handler.
func NewHandler(hub *Hub, registry *broker.Registry, limiter *broker.RateLimiter, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		registry: registry,
		limiter:  limiter,
		limits: broker.Limits{
			MaxConnections:   cfg.MaxConnections,
			MaxMessageLength: cfg.MaxMessageLength,
			HistoryOnJoin:    cfg.HistoryOnJoin,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		maxFrame: cfg.MaxMediaSize,
		log:      log,
	}
}

// ServeHTTP upgrades the connection, admits it against the global cap, and
// starts the pumps. A connection over the cap gets the error event flushed
// and is closed before any of its events are processed.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := newClient(uuid.NewString(), conn, h.hub, h.maxFrame, h.log)
	client.session = broker.NewSession(client, h.hub, h.registry, h.limiter, h.limits, h.log)

	h.hub.register(client)
	go client.writePump()

	if err := client.session.Admit(); err != nil {
		metrics.ConnectionsRejected.Inc()
		h.log.Warn().Str("conn_id", client.id).Msg("connection rejected at capacity")
		h.hub.unregister(client)
		return
	}

	go client.readPump()
}

// originChecker allows any origin when the list is empty (the extension
// connects from arbitrary pages), otherwise requires an exact match.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		return set[r.Header.Get("Origin")]
	}
}
