package models

// Message is a single chat message held in a room's in-memory history.
// Immutable once created. JSON tags are the wire shape clients see.
type Message struct {
	ID          string `json:"id"` // ULID, time-ordered, unique within a room
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatarColor"`
	Content     string `json:"content"`
	Type        string `json:"type"`      // only "text" is accepted today
	Timestamp   int64  `json:"timestamp"` // Unix ms
}
