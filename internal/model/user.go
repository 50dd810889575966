package model

import (
	"fmt"
	"time"
)

type User struct {
	ChatID      int64
	Username    string
	FirstName   string
	Registered  bool
	TotalPoints int
	CreatedAt   time.Time
}

// DisplayName prefers the @username, then the first name, then the raw chat id.
func (u *User) DisplayName() string {
	return DisplayName(u.ChatID, u.Username, u.FirstName)
}

func DisplayName(chatID int64, username, firstName string) string {
	switch {
	case username != "":
		return "@" + username
	case firstName != "":
		return firstName
	default:
		return fmt.Sprintf("ID %d", chatID)
	}
}

// Standing is a registered user's position on the leaderboard.
type Standing struct {
	ChatID      int64
	TotalPoints int
	Rank        int
}
