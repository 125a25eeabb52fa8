// Package tiktalk provides a Go client for the Tik-Talk ephemeral website
// chat protocol.
package tiktalk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event names on the wire.
const (
	EventJoinRoom    = "join-room"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventRoomJoined  = "room-joined"
	EventUserJoined  = "user-joined"
	EventNewMessage  = "new-message"
	EventUserTyping  = "user-typing"
	EventUserLeft    = "user-left"
	EventRateLimited = "rate-limited"
	EventError       = "error"
)

// envelope frames every message on the wire.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// UserProfile is the ephemeral identity the server mints at join time.
type UserProfile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatarColor"`
	JoinedAt    int64  `json:"joinedAt"`
}

// Message is a chat message as broadcast by the server.
type Message struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatarColor"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	Timestamp   int64  `json:"timestamp"`
}

// RoomJoined is the reply to a successful join.
type RoomJoined struct {
	RoomID         string      `json:"roomId"`
	UserData       UserProfile `json:"userData"`
	UserCount      int         `json:"userCount"`
	RecentMessages []Message   `json:"recentMessages"`
}

// UserEvent carries user-joined payloads.
type UserEvent struct {
	UserData  UserProfile `json:"userData"`
	UserCount int         `json:"userCount"`
}

// UserLeft carries user-left payloads.
type UserLeft struct {
	Username  string `json:"username"`
	UserCount int    `json:"userCount"`
}

// UserTyping carries user-typing payloads.
type UserTyping struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// ServerError carries error and rate-limited payloads.
type ServerError struct {
	Message string `json:"message"`
}

// Handler consumes the raw payload of one server event.
type Handler func(data json.RawMessage)

// Client is a Tik-Talk WebSocket client. Register handlers with On before
// calling Listen.
type Client struct {
	conn *websocket.Conn

	mu       sync.Mutex
	handlers map[string]Handler
}

// Dial connects to a Tik-Talk server. serverURL accepts http(s) or ws(s)
// schemes; the /ws path is appended when missing.
func Dial(ctx context.Context, serverURL string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return &Client{conn: conn, handlers: make(map[string]Handler)}, nil
}

// On registers a handler for a server event, replacing any previous one.
func (c *Client) On(event string, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = fn
}

// Join asks to join the room for the given page URL.
func (c *Client) Join(pageURL string) error {
	return c.emit(EventJoinRoom, map[string]string{"url": pageURL})
}

// SendText sends a text message to the joined room.
func (c *Client) SendText(content string) error {
	return c.emit(EventSendMessage, map[string]string{"content": content})
}

// SetTyping reports a typing state change to the room.
func (c *Client) SetTyping(isTyping bool) error {
	return c.emit(EventTyping, isTyping)
}

// Listen reads server events and dispatches them to registered handlers
// until the connection drops or ctx is cancelled.
func (c *Client) Listen(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-done:
		}
	}()

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		c.mu.Lock()
		fn := c.handlers[env.Event]
		c.mu.Unlock()
		if fn != nil {
			fn(env.Data)
		}
	}
}

// Close closes the connection after a best-effort close handshake.
func (c *Client) Close() error {
	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.conn.Close()
}

func (c *Client) emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(envelope{Event: event, Data: data})
}
