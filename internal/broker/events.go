package broker

import (
	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

// Inbound event names (client -> server).
const (
	EventJoinRoom    = "join-room"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
)

// Outbound event names (server -> client).
const (
	EventRoomJoined  = "room-joined"
	EventUserJoined  = "user-joined"
	EventNewMessage  = "new-message"
	EventUserTyping  = "user-typing"
	EventUserLeft    = "user-left"
	EventRateLimited = "rate-limited"
	EventError       = "error"
)

// JoinRoomRequest is the payload of a join-room event.
type JoinRoomRequest struct {
	URL string `json:"url"`
}

// SendMessageRequest is the payload of a send-message event. Type defaults
// to "text" when omitted.
type SendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// RoomJoinedPayload is sent to the joining connection only.
type RoomJoinedPayload struct {
	RoomID         string             `json:"roomId"`
	UserData       models.UserProfile `json:"userData"`
	UserCount      int                `json:"userCount"`
	RecentMessages []models.Message   `json:"recentMessages"`
}

// UserJoinedPayload is sent to every other member of the room.
type UserJoinedPayload struct {
	UserData  models.UserProfile `json:"userData"`
	UserCount int                `json:"userCount"`
}

// UserLeftPayload is sent to the members remaining after a disconnect.
type UserLeftPayload struct {
	Username  string `json:"username"`
	UserCount int    `json:"userCount"`
}

// UserTypingPayload is sent to every other member on a typing change.
type UserTypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// ErrorPayload carries error and rate-limited events.
type ErrorPayload struct {
	Message string `json:"message"`
}
