package application

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amckenna/studyhub/internal/domain/model"
)

func TestLedgerStore_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewLedgerStore(kv, discardLogger())
	ctx := context.Background()

	tests := []model.LedgerRecord{
		{},
		{Total: 65000, Sessions: 1},
		{Total: 123456789, Sessions: 42},
	}

	for _, rec := range tests {
		require.NoError(t, store.SaveLedger(ctx, "k", rec))
		assert.Equal(t, rec, store.LoadLedger(ctx, "k"))
	}
}

func TestLedgerStore_StoredValueIsOpaque(t *testing.T) {
	kv := newFakeKV()
	store := NewLedgerStore(kv, discardLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveLedger(ctx, "k", model.LedgerRecord{Total: 1000, Sessions: 1}))

	raw, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "total", "stored value should not be plain JSON")
	_, err = base64.StdEncoding.DecodeString(raw)
	assert.NoError(t, err, "stored value should be base64")
}

func TestLedgerStore_LoadLedger_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "missing key", stored: ""},
		{name: "not base64", stored: "%%% not base64 %%%"},
		{name: "base64 of garbage", stored: base64.StdEncoding.EncodeToString([]byte("not json"))},
		{name: "wrong types", stored: base64.StdEncoding.EncodeToString([]byte(`{"total":"x","sessions":1}`))},
		{name: "negative total", stored: base64.StdEncoding.EncodeToString([]byte(`{"total":-5,"sessions":1}`))},
		{name: "negative sessions", stored: base64.StdEncoding.EncodeToString([]byte(`{"total":5,"sessions":-1}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV()
			if tt.stored != "" {
				kv.data["k"] = tt.stored
			}
			store := NewLedgerStore(kv, discardLogger())

			got := store.LoadLedger(context.Background(), "k")
			assert.Equal(t, model.LedgerRecord{}, got)
		})
	}
}

func TestLedgerStore_LoadLedger_StoreFailure(t *testing.T) {
	kv := newFakeKV()
	kv.failGet = true
	store := NewLedgerStore(kv, discardLogger())

	got := store.LoadLedger(context.Background(), "k")
	assert.Equal(t, model.LedgerRecord{}, got, "read failure heals to the zero default")
}

func TestLedgerStore_History_FiltersInvalidEntries(t *testing.T) {
	kv := newFakeKV()
	store := NewLedgerStore(kv, discardLogger())
	ctx := context.Background()

	payload := `[
		{"duration":65000,"formatted":"00:01:05","date":"2026-03-01","time":"10:00:00","timestamp":1772359200000},
		{"duration":500,"formatted":"00:00:00","date":"2026-03-01","time":"10:01:00","timestamp":1772359260000},
		{"duration":"bad","timestamp":1772359260000},
		{"duration":2000,"formatted":"00:00:02","date":"2026-03-01","time":"10:02:00"},
		{"duration":3000,"formatted":"00:00:03","date":"2026-03-01","time":"10:03:00","timestamp":1772359380000}
	]`
	kv.data["h"] = base64.StdEncoding.EncodeToString([]byte(payload))

	got := store.LoadHistory(ctx, "h")
	require.Len(t, got, 2, "sub-second, mistyped, and timestamp-less entries are dropped")
	assert.Equal(t, int64(65000), got[0].Duration)
	assert.Equal(t, int64(3000), got[1].Duration)
}

func TestLedgerStore_History_CorruptContainer(t *testing.T) {
	kv := newFakeKV()
	kv.data["h"] = base64.StdEncoding.EncodeToString([]byte(`{"not":"an array"}`))
	store := NewLedgerStore(kv, discardLogger())

	assert.Empty(t, store.LoadHistory(context.Background(), "h"))
}

func TestLedgerStore_History_RoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := NewLedgerStore(kv, discardLogger())
	ctx := context.Background()

	entries := []model.SessionEntry{
		{Duration: 65000, Formatted: "00:01:05", Date: "2026-03-01", Time: "10:00:00", Timestamp: 1772359200000},
		{Duration: 2000, Formatted: "00:00:02", Date: "2026-03-01", Time: "09:00:00", Timestamp: 1772355600000},
	}
	require.NoError(t, store.SaveHistory(ctx, "h", entries))
	assert.Equal(t, entries, store.LoadHistory(ctx, "h"))
}

func TestLedgerStore_LastDate_PlainString(t *testing.T) {
	kv := newFakeKV()
	store := NewLedgerStore(kv, discardLogger())
	ctx := context.Background()

	assert.Empty(t, store.LoadLastDate(ctx, "d"))

	require.NoError(t, store.SaveLastDate(ctx, "d", "2026-03-01"))
	assert.Equal(t, "2026-03-01", store.LoadLastDate(ctx, "d"))
	assert.Equal(t, "2026-03-01", kv.data["d"], "last date is stored unencoded")
}
