package broker

import (
	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

// History is a bounded, ordered message buffer. Oldest messages are evicted
// first once the cap is reached. Not safe for concurrent use on its own;
// the owning Room's lock guards it.
type History struct {
	max  int
	msgs []models.Message
}

// NewHistory creates a buffer retaining at most max messages.
func NewHistory(max int) *History {
	return &History{max: max}
}

// Append adds a message, evicting the oldest if the buffer is full.
func (h *History) Append(msg models.Message) {
	h.msgs = append(h.msgs, msg)
	if len(h.msgs) > h.max {
		h.msgs = h.msgs[len(h.msgs)-h.max:]
	}
}

// Recent returns the last n messages, oldest first. Asking for more than is
// stored returns everything.
func (h *History) Recent(n int) []models.Message {
	if n > len(h.msgs) {
		n = len(h.msgs)
	}
	out := make([]models.Message, n)
	copy(out, h.msgs[len(h.msgs)-n:])
	return out
}

// Len returns the number of stored messages.
func (h *History) Len() int {
	return len(h.msgs)
}
