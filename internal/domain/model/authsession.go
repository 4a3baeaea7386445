package model

import "time"

// AuthSession is an opaque login token bound to a user with an expiry.
type AuthSession struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PasswordReset records a requested password reset. Delivery of the reset
// link is outside this service; the row is the audit trail.
type PasswordReset struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
