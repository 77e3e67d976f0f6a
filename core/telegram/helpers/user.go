package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// FullName joins the sender's first and last name.
func FullName(u *tele.User) string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// SenderID returns the sender's Telegram ID, or 0 when the update has no sender.
func SenderID(c tele.Context) int64 {
	if c == nil || c.Sender() == nil {
		return 0
	}
	return c.Sender().ID
}
