package models

// UserProfile is the ephemeral identity minted for one connection at join
// time. It has no meaning across reconnects: a user who reloads the page
// comes back as somebody else.
type UserProfile struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	AvatarColor string `json:"avatarColor"`
	JoinedAt    int64  `json:"joinedAt"` // Unix ms
}
