package ws_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Shashank-Karan/Tik-Talk/clients/go/tiktalk"
	"github.com/Shashank-Karan/Tik-Talk/internal/broker"
	"github.com/Shashank-Karan/Tik-Talk/internal/config"
	"github.com/Shashank-Karan/Tik-Talk/internal/ws"
)

// startServer brings up a real broker behind an httptest server and returns
// its base URL.
func startServer(t *testing.T) string {
	t.Helper()

	cfg := &config.Config{
		MaxConnections:     1000,
		RateLimitMessages:  15,
		RateLimitWindow:    10 * time.Second,
		MaxMessageLength:   1000,
		MaxMediaSize:       5 * 1024 * 1024,
		RoomCleanupDelay:   time.Minute,
		MaxMessagesPerRoom: 100,
		HistoryOnJoin:      50,
	}

	registry := broker.NewRegistry(cfg.RoomCleanupDelay, cfg.MaxMessagesPerRoom, zerolog.Nop())
	limiter := broker.NewRateLimiter(cfg.RateLimitMessages, cfg.RateLimitWindow)
	hub := ws.NewHub(zerolog.Nop())
	handler := ws.NewHandler(hub, registry, limiter, cfg, zerolog.Nop())

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		registry.Close()
	})
	return srv.URL
}

// connect dials the server, starts listening, and funnels selected events
// into a channel.
func connect(t *testing.T, baseURL string, events ...string) (*tiktalk.Client, <-chan tiktalk.Message, <-chan string) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	client, err := tiktalk.Dial(ctx, baseURL+"/ws")
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		client.Close()
	})

	messages := make(chan tiktalk.Message, 64)
	names := make(chan string, 64)

	client.On(tiktalk.EventNewMessage, func(data json.RawMessage) {
		var msg tiktalk.Message
		if json.Unmarshal(data, &msg) == nil {
			messages <- msg
		}
	})
	for _, ev := range events {
		ev := ev
		client.On(ev, func(json.RawMessage) {
			names <- ev
		})
	}

	go func() { _ = client.Listen(ctx) }()
	return client, messages, names
}

func waitJoined(t *testing.T, client *tiktalk.Client, pageURL string) tiktalk.RoomJoined {
	t.Helper()

	joined := make(chan tiktalk.RoomJoined, 1)
	client.On(tiktalk.EventRoomJoined, func(data json.RawMessage) {
		var payload tiktalk.RoomJoined
		if json.Unmarshal(data, &payload) == nil {
			joined <- payload
		}
	})
	require.NoError(t, client.Join(pageURL))

	select {
	case payload := <-joined:
		return payload
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for room-joined")
		return tiktalk.RoomJoined{}
	}
}

func TestEndToEnd_JoinAndChat(t *testing.T) {
	req := require.New(t)
	base := startServer(t)

	c1, msgs1, names1 := connect(t, base, tiktalk.EventUserJoined)
	joined1 := waitJoined(t, c1, "https://x.com/p")
	req.Equal("x.com/p", joined1.RoomID)
	req.Equal(1, joined1.UserCount)
	req.Empty(joined1.RecentMessages)

	c2, msgs2, _ := connect(t, base)
	joined2 := waitJoined(t, c2, "https://X.com/p/")
	req.Equal("x.com/p", joined2.RoomID)
	req.Equal(2, joined2.UserCount)

	select {
	case ev := <-names1:
		req.Equal(tiktalk.EventUserJoined, ev)
	case <-time.After(3 * time.Second):
		t.Fatal("c1 never heard about c2 joining")
	}

	req.NoError(c1.SendText("hi"))

	for _, ch := range []<-chan tiktalk.Message{msgs1, msgs2} {
		select {
		case msg := <-ch:
			req.Equal("hi", msg.Content)
			req.Equal(joined1.UserData.UserID, msg.UserID)
		case <-time.After(3 * time.Second):
			t.Fatal("message was not broadcast to the whole room")
		}
	}
}

func TestEndToEnd_LeaveNotifiesRoom(t *testing.T) {
	req := require.New(t)
	base := startServer(t)

	c1, _, _ := connect(t, base)
	waitJoined(t, c1, "https://x.com/p")

	c2, _, names2 := connect(t, base, tiktalk.EventUserLeft)
	waitJoined(t, c2, "https://x.com/p")

	req.NoError(c1.Close())

	select {
	case ev := <-names2:
		req.Equal(tiktalk.EventUserLeft, ev)
	case <-time.After(3 * time.Second):
		t.Fatal("c2 never heard about c1 leaving")
	}
}

func TestEndToEnd_RateLimitSignal(t *testing.T) {
	req := require.New(t)
	base := startServer(t)

	c1, msgs1, names1 := connect(t, base, tiktalk.EventRateLimited)
	waitJoined(t, c1, "https://x.com/p")

	for i := 0; i < 16; i++ {
		req.NoError(c1.SendText("spam"))
	}

	select {
	case ev := <-names1:
		req.Equal(tiktalk.EventRateLimited, ev)
	case <-time.After(3 * time.Second):
		t.Fatal("the 16th send should have been rate limited")
	}

	// Exactly 15 made it through.
	received := 0
	deadline := time.After(3 * time.Second)
	for received < 15 {
		select {
		case <-msgs1:
			received++
		case <-deadline:
			t.Fatalf("expected 15 broadcasts, got %d", received)
		}
	}
	select {
	case <-msgs1:
		t.Fatal("the rate-limited message must not be broadcast")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEndToEnd_ErrorOnUnjoinedSend(t *testing.T) {
	req := require.New(t)
	base := startServer(t)

	ctx := context.Background()
	client, err := tiktalk.Dial(ctx, base+"/ws")
	req.NoError(err)
	defer client.Close()

	errs := make(chan tiktalk.ServerError, 1)
	client.On(tiktalk.EventError, func(data json.RawMessage) {
		var e tiktalk.ServerError
		if json.Unmarshal(data, &e) == nil {
			errs <- e
		}
	})
	go func() { _ = client.Listen(ctx) }()

	req.NoError(client.SendText("hello?"))

	select {
	case e := <-errs:
		req.Equal("not in a room", e.Message)
	case <-time.After(3 * time.Second):
		t.Fatal("expected an error event")
	}
}
