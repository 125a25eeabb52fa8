package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// ClientCounter reports the number of live WebSocket connections.
type ClientCounter interface {
	ClientCount() int
}

// RoomCounter reports the number of live rooms.
type RoomCounter interface {
	RoomCount() int
}

// Handler contains shared dependencies for all HTTP handlers. It reads only
// the broker's public counters; the chat protocol itself lives on /ws.
type Handler struct {
	clients   ClientCounter
	rooms     RoomCounter
	startedAt time.Time
}

// NewHandler creates a new Handler with the given counters.
func NewHandler(clients ClientCounter, rooms RoomCounter) *Handler {
	return &Handler{clients: clients, rooms: rooms, startedAt: time.Now()}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Root handles the landing route with a server banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, map[string]string{
		"name":   "tik talk server",
		"status": "running",
	})
}
