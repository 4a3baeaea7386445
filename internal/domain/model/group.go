package model

import "time"

// Group is a named study group with a bounded membership list.
type Group struct {
	ID          string
	Name        string
	Description string // optional markdown, rendered and sanitized by the API layer
	CreatedBy   string
	CreatedAt   time.Time
	Members     []string // ordered by join time, no duplicates
	MaxSize     int
}

// HasMember reports whether the given user id is in the membership list.
func (g Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsFull reports whether the group has reached its capacity bound.
func (g Group) IsFull() bool {
	return len(g.Members) >= g.MaxSize
}
