package broker

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Shashank-Karan/Tik-Talk/internal/models"
)

var adjectives = []string{
	"Happy", "Swift", "Brave", "Clever", "Gentle", "Mighty", "Noble", "Quick",
	"Wise", "Cool", "Chill", "Epic", "Funky", "Groovy", "Jazzy",
}

var animals = []string{
	"Panda", "Tiger", "Eagle", "Dolphin", "Fox", "Wolf", "Bear", "Hawk",
	"Lion", "Owl", "Koala", "Penguin", "Rabbit", "Dragon", "Phoenix",
}

var avatarColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9", "#F8B500", "#00CED1",
}

const userIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewUserID returns a short random token like "SHA7K2Q9". Display-only:
// it carries no security properties and only needs to avoid in-room
// collisions for the life of one connection.
func NewUserID() string {
	var b strings.Builder
	b.WriteString("SHA")
	for i := 0; i < 5; i++ {
		b.WriteByte(userIDAlphabet[rand.IntN(len(userIDAlphabet))])
	}
	return b.String()
}

// NewUsername makes a random fun name like "GroovyPanda42".
func NewUsername() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	animal := animals[rand.IntN(len(animals))]
	return fmt.Sprintf("%s%s%d", adj, animal, rand.IntN(999))
}

// NewAvatarColor picks a random color from the palette.
func NewAvatarColor() string {
	return avatarColors[rand.IntN(len(avatarColors))]
}

// NewUserProfile mints a fresh ephemeral identity for a joining connection.
func NewUserProfile() models.UserProfile {
	return models.UserProfile{
		UserID:      NewUserID(),
		Username:    NewUsername(),
		AvatarColor: NewAvatarColor(),
		JoinedAt:    time.Now().UnixMilli(),
	}
}
