package broker

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

func newTestRegistry(grace time.Duration) *Registry {
	return NewRegistry(grace, 100, zerolog.Nop())
}

func TestRegistry_GetOrCreate(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(time.Minute)
	defer reg.Close()

	room := reg.GetOrCreate("host.com/path")
	req.Equal("host.com/path", room.Key())
	req.Equal(0, room.MemberCount())
	req.Equal(1, reg.RoomCount())

	// Same key returns the same room.
	req.Same(room, reg.GetOrCreate("host.com/path"))
	req.Equal(1, reg.RoomCount())
}

func TestRegistry_CleanupFiresOnAbandonedRoom(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(20 * time.Millisecond)
	defer reg.Close()

	reg.GetOrCreate("host.com/p")
	reg.ScheduleCleanup("host.com/p")

	req.Eventually(func() bool {
		return reg.RoomCount() == 0
	}, time.Second, 5*time.Millisecond, "empty room should be reclaimed after the grace period")

	_, ok := reg.Get("host.com/p")
	req.False(ok)
}

func TestRegistry_JoinCancelsCleanup(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(30 * time.Millisecond)
	defer reg.Close()

	reg.GetOrCreate("host.com/p")
	reg.ScheduleCleanup("host.com/p")

	// A join before the grace period elapses must keep the room alive.
	reg.GetOrCreate("host.com/p")

	time.Sleep(80 * time.Millisecond)
	req.Equal(1, reg.RoomCount())
}

func TestRegistry_CleanupRevalidatesMembership(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(20 * time.Millisecond)
	defer reg.Close()

	room := reg.GetOrCreate("host.com/p")
	reg.ScheduleCleanup("host.com/p")

	// Membership became non-zero after scheduling; the firing is a no-op.
	room.mu.Lock()
	room.members["c1"] = models.UserProfile{UserID: "SHA11111"}
	room.mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	req.Equal(1, reg.RoomCount())
}

func TestRegistry_RescheduleReplacesTimer(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(40 * time.Millisecond)
	defer reg.Close()

	reg.GetOrCreate("host.com/p")
	reg.ScheduleCleanup("host.com/p")
	time.Sleep(25 * time.Millisecond)
	reg.ScheduleCleanup("host.com/p")

	// The superseded timer's original deadline passes without effect.
	time.Sleep(25 * time.Millisecond)
	req.Equal(1, reg.RoomCount())

	req.Eventually(func() bool {
		return reg.RoomCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestRegistry_Remove(t *testing.T) {
	req := require.New(t)
	reg := newTestRegistry(time.Minute)
	defer reg.Close()

	reg.GetOrCreate("a.com")
	reg.ScheduleCleanup("a.com")
	reg.Remove("a.com")

	req.Equal(0, reg.RoomCount())
	_, ok := reg.Get("a.com")
	req.False(ok)
}
