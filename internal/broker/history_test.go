package broker

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

func numbered(n int) models.Message {
	return models.Message{ID: strconv.Itoa(n), Content: strconv.Itoa(n)}
}

func TestHistory_EvictsOldestBeyondCap(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100)

	for i := 0; i < 105; i++ {
		h.Append(numbered(i))
	}

	req.Equal(100, h.Len())
	kept := h.Recent(100)
	req.Equal("5", kept[0].ID, "oldest five should be gone")
	req.Equal("104", kept[99].ID)
	for i, msg := range kept {
		req.Equal(strconv.Itoa(i+5), msg.ID, "relative order must be preserved")
	}
}

func TestHistory_RecentReturnsTail(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100)

	for i := 0; i < 10; i++ {
		h.Append(numbered(i))
	}

	tail := h.Recent(3)
	req.Len(tail, 3)
	req.Equal("7", tail[0].ID)
	req.Equal("9", tail[2].ID)
}

func TestHistory_RecentLargerThanStored(t *testing.T) {
	req := require.New(t)
	h := NewHistory(100)

	req.Empty(h.Recent(50))

	h.Append(numbered(0))
	req.Len(h.Recent(50), 1)
}
