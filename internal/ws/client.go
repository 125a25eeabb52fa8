package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Shashank-Karan/Tik-Talk/internal/broker"
)

const (
	// Mirrors the ping cadence of the original deployment: ping every 25s,
	// give the peer 60s to answer.
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second

	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Client is one WebSocket connection. It implements broker.Conn; its read
// pump dispatches inbound events to the session one at a time, which is what
// keeps a single connection's events in order.
type Client struct {
	id      string
	conn    *websocket.Conn
	hub     *Hub
	session *broker.Session
	send    chan []byte
	log     zerolog.Logger

	maxFrameSize int64
}

func newClient(id string, conn *websocket.Conn, hub *Hub, maxFrameSize int64, log zerolog.Logger) *Client {
	return &Client{
		id:           id,
		conn:         conn,
		hub:          hub,
		send:         make(chan []byte, sendBufferSize),
		log:          log.With().Str("conn_id", id).Logger(),
		maxFrameSize: maxFrameSize,
	}
}

// ID returns the unique connection id.
func (c *Client) ID() string {
	return c.id
}

// Send encodes and enqueues an event for this connection. Never blocks.
func (c *Client) Send(event string, payload any) {
	frame, err := encodeEnvelope(event, payload)
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}
	c.enqueue(frame)
}

// enqueue hands a pre-encoded frame to the write pump, dropping it if the
// client's buffer is full. Sending to a closed channel is possible when a
// broadcast races an unregister; the recover keeps that harmless.
func (c *Client) enqueue(frame []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case c.send <- frame:
	default:
		c.log.Warn().Msg("send buffer full, dropping frame")
	}
}

// readPump reads envelopes off the socket and runs each through the session
// to completion before reading the next. On any exit path it unregisters the
// client and tears the session down, so rate-limit entries and room
// membership are released even on abrupt transport failures.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.session.Disconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}

		c.session.HandleEvent(env.Event, env.Data)
	}
}

// writePump drains the send channel to the socket and keeps the connection
// alive with pings. It exits when the send channel closes (unregister) or a
// write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
