// Package application contains use-case orchestration services.
package application

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// LedgerStore persists stopwatch ledgers and session history through the
// key-value port. Values are stored as base64-over-JSON: a reversible
// obfuscation so the underlying store holds opaque strings, not a security
// measure.
//
// Loads never fail the caller: a missing key, an undecodable value, or a
// record failing schema validation all yield the type-appropriate zero
// default. Saves return an error but callers are expected to treat them as
// best-effort and keep in-memory state authoritative.
type LedgerStore struct {
	kv     driven.KVStore
	logger *slog.Logger
}

// NewLedgerStore creates a LedgerStore over the given key-value port.
func NewLedgerStore(kv driven.KVStore, logger *slog.Logger) *LedgerStore {
	return &LedgerStore{kv: kv, logger: logger}
}

// LoadLedger returns the ledger record stored under key, or the zero record.
func (s *LedgerStore) LoadLedger(ctx context.Context, key string) model.LedgerRecord {
	raw, ok := s.get(ctx, key)
	if !ok {
		return model.LedgerRecord{}
	}

	var rec model.LedgerRecord
	if err := decode(raw, &rec); err != nil || !rec.Valid() {
		return model.LedgerRecord{}
	}
	return rec
}

// SaveLedger stores the ledger record under key.
func (s *LedgerStore) SaveLedger(ctx context.Context, key string, rec model.LedgerRecord) error {
	return s.set(ctx, key, rec)
}

// LoadHistory returns the session history stored under key, dropping entries
// that are individually malformed. A corrupt container yields an empty
// history.
func (s *LedgerStore) LoadHistory(ctx context.Context, key string) []model.SessionEntry {
	raw, ok := s.get(ctx, key)
	if !ok {
		return nil
	}

	var items []json.RawMessage
	if err := decode(raw, &items); err != nil {
		return nil
	}

	entries := make([]model.SessionEntry, 0, len(items))
	for _, item := range items {
		var entry model.SessionEntry
		if err := json.Unmarshal(item, &entry); err != nil || !entry.Valid() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// SaveHistory stores the session history under key as one unit.
func (s *LedgerStore) SaveHistory(ctx context.Context, key string, entries []model.SessionEntry) error {
	if entries == nil {
		entries = []model.SessionEntry{}
	}
	return s.set(ctx, key, entries)
}

// LoadLastDate returns the plain (unencoded) last-seen calendar date stored
// under key, or empty when absent.
func (s *LedgerStore) LoadLastDate(ctx context.Context, key string) string {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("kv read failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// SaveLastDate stores the last-seen calendar date as a plain string.
func (s *LedgerStore) SaveLastDate(ctx context.Context, key, date string) error {
	return s.kv.Set(ctx, key, date)
}

func (s *LedgerStore) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("kv read failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}

func (s *LedgerStore) set(ctx context.Context, key string, v any) error {
	encoded, err := encode(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, encoded)
}

// encode marshals v to JSON and wraps it in base64.
func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decode reverses encode into out.
func decode(raw string, out any) error {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
