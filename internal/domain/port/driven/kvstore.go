package driven

import "context"

// KVStore defines the driven port for the opaque key-value store backing the
// stopwatch ledgers and session history. Values are already-encoded strings;
// the store does not interpret them.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
