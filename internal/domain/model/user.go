package model

import (
	"strings"
	"time"
)

// User is a registered account.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
}

// MaskedEmail returns the email with most of the local part hidden, suitable
// for display ("jo*****@example.com").
func (u User) MaskedEmail() string {
	at := strings.IndexByte(u.Email, '@')
	if at < 0 {
		return u.Email
	}
	local, domain := u.Email[:at], u.Email[at+1:]
	visible := 2
	if len(local) < visible {
		visible = len(local)
	}
	return local[:visible] + strings.Repeat("*", len(local)-visible) + "@" + domain
}
