package handlers

import (
	"net/http"
	"time"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"` // seconds
	Users  int     `json:"users"`
	Rooms  int     `json:"rooms"`
}

// Health reports process uptime, live client count, and room count. The
// broker state is all in-memory, so a responding process is a healthy one.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startedAt).Seconds(),
		Users:  h.clients.ClientCount(),
		Rooms:  h.rooms.RoomCount(),
	})
}
