package broker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/metrics"
	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

// Room is one chat channel scoped to a normalized site identity. It exists
// from the moment its first member joins until a cleanup timer finds it
// empty after the grace period.
//
// mu guards members, history, and lastActivity. Sessions hold it for the
// whole of an event, including the broadcast enqueue, which is what gives
// each room a single total message order.
type Room struct {
	mu           sync.Mutex
	key          string
	members      map[string]models.UserProfile // connection id -> profile
	history      *History
	lastActivity time.Time
}

// Key returns the room's normalized site identity.
func (r *Room) Key() string {
	return r.key
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Registry owns every live room and its pending cleanup timer. One instance
// per process, created at startup and injected wherever rooms are needed, so
// tests can run isolated registries side by side.
type Registry struct {
	mu         sync.Mutex
	rooms      map[string]*Room
	timers     map[string]*time.Timer
	grace      time.Duration
	historyMax int
	log        zerolog.Logger
}

// NewRegistry creates an empty registry. grace is how long an empty room
// lingers before deletion; historyMax bounds each room's message buffer.
func NewRegistry(grace time.Duration, historyMax int, log zerolog.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		timers:     make(map[string]*time.Timer),
		grace:      grace,
		historyMax: historyMax,
		log:        log,
	}
}

// GetOrCreate returns the room for key, creating it if needed. Any pending
// cleanup timer for the key is cancelled, so a join racing a scheduled
// deletion always wins if it gets here before the timer fires.
func (reg *Registry) GetOrCreate(key string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if t, ok := reg.timers[key]; ok {
		t.Stop()
		delete(reg.timers, key)
	}

	if room, ok := reg.rooms[key]; ok {
		return room
	}

	room := &Room{
		key:          key,
		members:      make(map[string]models.UserProfile),
		history:      NewHistory(reg.historyMax),
		lastActivity: time.Now(),
	}
	reg.rooms[key] = room

	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Set(float64(len(reg.rooms)))
	return room
}

// Get returns the room for key if it exists.
func (reg *Registry) Get(key string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[key]
	return room, ok
}

// Remove deletes the room and any pending timer for key.
func (reg *Registry) Remove(key string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.removeLocked(key)
}

func (reg *Registry) removeLocked(key string) {
	if t, ok := reg.timers[key]; ok {
		t.Stop()
		delete(reg.timers, key)
	}
	delete(reg.rooms, key)
	metrics.ActiveRooms.Set(float64(len(reg.rooms)))
}

// ScheduleCleanup arms a deletion timer for key, replacing any pending one.
// The timer re-validates at fire time that the room is still empty; a join
// that slipped in meanwhile makes the firing a no-op.
func (reg *Registry) ScheduleCleanup(key string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if t, ok := reg.timers[key]; ok {
		t.Stop()
	}

	reg.timers[key] = time.AfterFunc(reg.grace, func() {
		reg.cleanup(key)
	})
}

func (reg *Registry) cleanup(key string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[key]
	if !ok {
		delete(reg.timers, key)
		return
	}

	room.mu.Lock()
	empty := len(room.members) == 0
	room.mu.Unlock()

	if !empty {
		delete(reg.timers, key)
		return
	}

	reg.removeLocked(key)
	metrics.RoomsCleaned.Inc()
	reg.log.Info().Str("room", key).Msg("cleaned up empty room")
}

// RoomCount returns the number of live rooms.
func (reg *Registry) RoomCount() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Close stops every outstanding cleanup timer. Used at shutdown and in
// tests; rooms themselves are just memory.
func (reg *Registry) Close() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for key, t := range reg.timers {
		t.Stop()
		delete(reg.timers, key)
	}
}
