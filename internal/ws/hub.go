// Package ws is the WebSocket transport substrate for the broker: it owns
// the live connections, their room groups for broadcast addressing, and the
// per-connection read/write pumps. JSON envelopes {"event": ..., "data": ...}
// travel in both directions.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/metrics"
)

// Envelope frames every message on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks all connected clients and their room groups. It implements
// broker.Transport.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client // room key -> connection id -> client
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	metrics.ConnectionsTotal.Inc()
	metrics.ConnectedClients.Set(float64(count))
	h.log.Debug().Str("conn_id", c.id).Int("clients", count).Msg("client registered")
}

// unregister removes the client from the hub and every room group and closes
// its send channel. Idempotent; buffered outbound events still drain to the
// socket before it closes.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	for key, group := range h.rooms {
		delete(group, c.id)
		if len(group) == 0 {
			delete(h.rooms, key)
		}
	}
	count := len(h.clients)
	h.mu.Unlock()

	close(c.send)
	metrics.ConnectedClients.Set(float64(count))
	h.log.Debug().Str("conn_id", c.id).Int("clients", count).Msg("client unregistered")
}

// Join adds the connection to a room group.
func (h *Hub) Join(roomKey, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	group, ok := h.rooms[roomKey]
	if !ok {
		group = make(map[string]*Client)
		h.rooms[roomKey] = group
	}
	group[connID] = c
}

// Leave removes the connection from a room group.
func (h *Hub) Leave(roomKey, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomKey]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.rooms, roomKey)
	}
}

// Broadcast sends an event to every connection in the room group.
func (h *Hub) Broadcast(roomKey, event string, payload any) {
	h.BroadcastExcept(roomKey, "", event, payload)
}

// BroadcastExcept sends an event to every connection in the room group
// except exceptConnID. Enqueueing only; a slow client drops frames rather
// than stalling the room.
func (h *Hub) BroadcastExcept(roomKey, exceptConnID, event string, payload any) {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("failed to encode broadcast")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.rooms[roomKey] {
		if id == exceptConnID {
			continue
		}
		c.enqueue(frame)
	}
}

// ClientCount returns the number of live connections process-wide.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomGroupSize returns the size of a room's transport group. Test hook.
func (h *Hub) RoomGroupSize(roomKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomKey])
}

func encodeEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
