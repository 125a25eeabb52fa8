package broker

import "errors"

// Session errors. The websocket layer maps these onto wire events: most
// become an "error" event on the offending connection, ErrRateLimited becomes
// the softer "rate-limited" event, and ErrServerFull closes the connection.
var (
	// ErrInvalidRequest is a malformed join (missing URL) or a join over an
	// already-joined session.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotInRoom is a send attempted before a successful join.
	ErrNotInRoom = errors.New("not in a room")

	// ErrInvalidMessage is empty, over-length, or non-text content.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrRateLimited means the sender exhausted its window. Not a hard error;
	// the message is silently discarded.
	ErrRateLimited = errors.New("rate limited")

	// ErrServerFull means the global connection cap was reached. The only
	// fatal condition: the connection is closed immediately.
	ErrServerFull = errors.New("server full")
)
