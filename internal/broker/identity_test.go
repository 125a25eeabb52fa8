package broker

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var userIDPattern = regexp.MustCompile(`^SHA[0-9A-Z]{5}$`)

func TestNewUserID_Shape(t *testing.T) {
	for i := 0; i < 100; i++ {
		require.Regexp(t, userIDPattern, NewUserID())
	}
}

func TestNewUsername_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{1,3}$`)
	for i := 0; i < 100; i++ {
		require.Regexp(t, pattern, NewUsername())
	}
}

func TestNewAvatarColor_FromPalette(t *testing.T) {
	palette := make(map[string]bool, len(avatarColors))
	for _, c := range avatarColors {
		palette[c] = true
	}
	for i := 0; i < 100; i++ {
		require.True(t, palette[NewAvatarColor()])
	}
}

func TestNewUserProfile_Complete(t *testing.T) {
	req := require.New(t)
	p := NewUserProfile()

	req.Regexp(userIDPattern, p.UserID)
	req.NotEmpty(p.Username)
	req.NotEmpty(p.AvatarColor)
	req.Positive(p.JoinedAt)
}
