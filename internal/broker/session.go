// Package broker is the room and presence core of Tik-Talk: it maps
// connections to rooms keyed by normalized page URLs, keeps bounded message
// history, throttles senders, and reclaims abandoned rooms after a grace
// period. It owns no networking; a Transport delivers its broadcasts.
package broker

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/metrics"
	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

// Conn is one live client connection as the broker sees it. Send enqueues
// an event for delivery and must not block.
type Conn interface {
	ID() string
	Send(event string, payload any)
}

// Transport is the substrate the broker broadcasts through. Join/Leave
// maintain the transport's own room group for Broadcast addressing;
// ClientCount is the process-wide number of live connections.
type Transport interface {
	Join(roomKey, connID string)
	Leave(roomKey, connID string)
	Broadcast(roomKey, event string, payload any)
	BroadcastExcept(roomKey, exceptConnID, event string, payload any)
	ClientCount() int
}

// Limits are the session-level tuning knobs.
type Limits struct {
	MaxConnections   int
	MaxMessageLength int
	HistoryOnJoin    int
}

// State is a session's position in its Unjoined -> Joined -> Closed life.
type State int

const (
	StateUnjoined State = iota
	StateJoined
	StateClosed
)

const rateLimitedMessage = "too fast! wait a bit."

// Session drives the broker on behalf of one connection. Events for a single
// connection are dispatched sequentially by its read loop, so Session fields
// need no lock of their own; shared state (rooms, registry, limiter) carries
// its own locking.
type Session struct {
	conn      Conn
	transport Transport
	registry  *Registry
	limiter   *RateLimiter
	limits    Limits
	log       zerolog.Logger

	state   State
	room    *Room
	profile models.UserProfile
}

// NewSession creates a coordinator for conn. Call Admit before dispatching
// any events.
func NewSession(conn Conn, transport Transport, registry *Registry, limiter *RateLimiter, limits Limits, log zerolog.Logger) *Session {
	return &Session{
		conn:      conn,
		transport: transport,
		registry:  registry,
		limiter:   limiter,
		limits:    limits,
		log:       log.With().Str("conn_id", conn.ID()).Logger(),
	}
}

// Admit enforces the global connection cap. On overflow it tells the client
// and returns ErrServerFull; the caller must then drop the connection
// without processing any events.
func (s *Session) Admit() error {
	if s.transport.ClientCount() > s.limits.MaxConnections {
		s.conn.Send(EventError, ErrorPayload{Message: "server full, try later"})
		s.state = StateClosed
		return ErrServerFull
	}
	return nil
}

// HandleEvent processes one inbound event to completion. Faults are
// contained here: any error or panic becomes an error event on this
// connection and never touches other rooms or sessions.
func (s *Session) HandleEvent(event string, data json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("event", event).Interface("panic", r).Msg("recovered while handling event")
			s.conn.Send(EventError, ErrorPayload{Message: "internal error"})
		}
	}()

	var err error
	switch event {
	case EventJoinRoom:
		var req JoinRoomRequest
		if jsonErr := json.Unmarshal(data, &req); jsonErr != nil {
			err = ErrInvalidRequest
			break
		}
		err = s.handleJoin(req.URL)
	case EventSendMessage:
		var req SendMessageRequest
		if jsonErr := json.Unmarshal(data, &req); jsonErr != nil {
			err = ErrInvalidMessage
			break
		}
		err = s.handleSend(req.Content, req.Type)
	case EventTyping:
		var isTyping bool
		if json.Unmarshal(data, &isTyping) == nil {
			s.handleTyping(isTyping)
		}
	default:
		s.log.Debug().Str("event", event).Msg("ignoring unknown event")
	}

	switch {
	case err == nil:
	case err == ErrRateLimited:
		s.conn.Send(EventRateLimited, ErrorPayload{Message: rateLimitedMessage})
	default:
		s.conn.Send(EventError, ErrorPayload{Message: err.Error()})
	}
}

// handleJoin moves the session from Unjoined to Joined: normalize the URL,
// mint a profile, enter the room, replay recent history to the joiner, and
// announce the join to everyone else.
func (s *Session) handleJoin(rawURL string) error {
	if s.state != StateUnjoined || rawURL == "" {
		return ErrInvalidRequest
	}

	key := NormalizeURL(rawURL)
	profile := NewUserProfile()
	room := s.registry.GetOrCreate(key)

	// The room lock is held across the broadcast enqueues so joins, sends,
	// and leaves interleave in one total order per room. Deferred unlocks
	// keep a fault in an enqueue from leaving the room locked.
	var count int
	func() {
		room.mu.Lock()
		defer room.mu.Unlock()

		room.members[s.conn.ID()] = profile
		room.lastActivity = time.Now()
		count = len(room.members)
		recent := room.history.Recent(s.limits.HistoryOnJoin)

		s.transport.Join(key, s.conn.ID())
		s.conn.Send(EventRoomJoined, RoomJoinedPayload{
			RoomID:         key,
			UserData:       profile,
			UserCount:      count,
			RecentMessages: recent,
		})
		s.transport.BroadcastExcept(key, s.conn.ID(), EventUserJoined, UserJoinedPayload{
			UserData:  profile,
			UserCount: count,
		})
	}()

	s.state = StateJoined
	s.room = room
	s.profile = profile

	s.log.Info().Str("room", key).Str("username", profile.Username).Int("user_count", count).Msg("user joined room")
	return nil
}

// handleSend validates fully, then commits to history, then broadcasts to
// the whole room including the sender.
func (s *Session) handleSend(content, kind string) error {
	if s.state != StateJoined {
		return ErrNotInRoom
	}

	if !s.limiter.Allow(s.conn.ID()) {
		metrics.RateLimitHits.Inc()
		return ErrRateLimited
	}

	if kind == "" {
		kind = "text"
	}
	if kind != "text" {
		return ErrInvalidMessage
	}
	if content == "" || len(content) > s.limits.MaxMessageLength {
		return ErrInvalidMessage
	}

	msg := models.Message{
		ID:          ulid.Make().String(),
		UserID:      s.profile.UserID,
		Username:    s.profile.Username,
		AvatarColor: s.profile.AvatarColor,
		Content:     content,
		Type:        kind,
		Timestamp:   time.Now().UnixMilli(),
	}

	func() {
		s.room.mu.Lock()
		defer s.room.mu.Unlock()

		s.room.history.Append(msg)
		s.room.lastActivity = time.Now()
		s.transport.Broadcast(s.room.key, EventNewMessage, msg)
	}()

	metrics.MessagesPosted.Inc()
	return nil
}

// handleTyping relays a typing change to the rest of the room. Best-effort:
// before a join it is silently ignored, not an error.
func (s *Session) handleTyping(isTyping bool) {
	if s.state != StateJoined {
		return
	}

	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	s.transport.BroadcastExcept(s.room.key, s.conn.ID(), EventUserTyping, UserTypingPayload{
		Username: s.profile.Username,
		IsTyping: isTyping,
	})
}

// Disconnect tears the session down. Safe to call for graceful closes and
// transport failures alike; the rate-limit entry is always released, and a
// room left empty gets its cleanup scheduled.
func (s *Session) Disconnect() {
	if s.state == StateJoined {
		room := s.room

		var count int
		func() {
			room.mu.Lock()
			defer room.mu.Unlock()

			delete(room.members, s.conn.ID())
			count = len(room.members)
			s.transport.Leave(room.key, s.conn.ID())
			s.transport.BroadcastExcept(room.key, s.conn.ID(), EventUserLeft, UserLeftPayload{
				Username:  s.profile.Username,
				UserCount: count,
			})
		}()

		if count == 0 {
			s.registry.ScheduleCleanup(room.key)
		}

		s.log.Info().Str("room", room.key).Str("username", s.profile.Username).Msg("user left room")
	}

	s.limiter.Forget(s.conn.ID())
	s.state = StateClosed
	s.room = nil
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}
