package model

// SessionEntry is one completed, committed stopwatch run. The JSON field
// names are part of the persisted history format.
type SessionEntry struct {
	Duration  int64  `json:"duration"` // milliseconds, >= 1000
	Formatted string `json:"formatted"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// Valid reports whether the entry is well-formed: a duration of at least one
// second and a real timestamp. Invalid entries are dropped on load.
func (s SessionEntry) Valid() bool {
	return s.Duration >= 1000 && s.Timestamp > 0
}

// HistoryLimit caps the persisted session history; the oldest entry is
// evicted when a new one is committed.
const HistoryLimit = 20
