package model

// LedgerRecord aggregates total tracked time and completed session count for
// one period. Two instances exist per user: "today" and "all-time".
type LedgerRecord struct {
	Total    int64 `json:"total"` // milliseconds
	Sessions int64 `json:"sessions"`
}

// Valid reports whether both fields are non-negative. Records failing this
// check are replaced with the zero value on load.
func (r LedgerRecord) Valid() bool {
	return r.Total >= 0 && r.Sessions >= 0
}
