package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amckenna/studyhub/internal/domain/model"
)

// Sentinel errors returned by StopwatchService.
var (
	// ErrSessionTooShort indicates a commit was attempted with less than one
	// second on the clock.
	ErrSessionTooShort = errors.New("session shorter than one second")

	// ErrLedgerOverflow indicates adding the elapsed time would wrap a ledger
	// total; the commit is aborted and the ledger keeps its last good value.
	ErrLedgerOverflow = errors.New("ledger total overflow")
)

// Persisted key prefixes. The original single-user layout used bare keys;
// here each user gets their own namespace.
const (
	todayKeyPrefix    = "stopwatch_today:"
	allTimeKeyPrefix  = "stopwatch_alltime:"
	historyKeyPrefix  = "stopwatch_sessions:"
	lastDateKeyPrefix = "stopwatch_lastdate:"
)

// stopwatchState is the in-memory clock state for one user.
// While running, elapsed is derived from startRef; while idle, elapsed is frozen.
type stopwatchState struct {
	running  bool
	startRef time.Time
	elapsed  time.Duration
}

// StopwatchStatus is the full view of one user's stopwatch for rendering.
type StopwatchStatus struct {
	Running   bool
	ElapsedMS int64
	Formatted string
	Today     model.LedgerRecord
	AllTime   model.LedgerRecord
	History   []model.SessionEntry
}

// StopwatchService tracks elapsed time per user and commits completed runs
// to the ledger store. All state transitions go through a single mutex, so
// ticks and commits never interleave.
type StopwatchService struct {
	ledgers *LedgerStore
	logger  *slog.Logger

	mu     sync.Mutex
	states map[string]*stopwatchState
	now    func() time.Time
}

// NewStopwatchService creates a StopwatchService over the given ledger store.
func NewStopwatchService(ledgers *LedgerStore, logger *slog.Logger) *StopwatchService {
	return &StopwatchService{
		ledgers: ledgers,
		logger:  logger,
		states:  make(map[string]*stopwatchState),
		now:     time.Now,
	}
}

// Toggle alternates the stopwatch between idle and running. Starting
// preserves any frozen elapsed time; stopping freezes the current value.
// Returns whether the stopwatch is running after the call.
func (s *StopwatchService) Toggle(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkRollover(ctx, userID)

	st := s.state(userID)
	if st.running {
		st.elapsed = s.now().Sub(st.startRef)
		st.running = false
	} else {
		st.startRef = s.now().Add(-st.elapsed)
		st.running = true
	}
	return st.running, nil
}

// Status returns the current stopwatch view: elapsed clock, both ledgers,
// and the session history.
func (s *StopwatchService) Status(ctx context.Context, userID string) (*StopwatchStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkRollover(ctx, userID)

	st := s.state(userID)
	elapsed := s.elapsedOf(st)

	return &StopwatchStatus{
		Running:   st.running,
		ElapsedMS: elapsed.Milliseconds(),
		Formatted: FormatClock(elapsed.Milliseconds()),
		Today:     s.ledgers.LoadLedger(ctx, todayKeyPrefix+userID),
		AllTime:   s.ledgers.LoadLedger(ctx, allTimeKeyPrefix+userID),
		History:   s.ledgers.LoadHistory(ctx, historyKeyPrefix+userID),
	}, nil
}

// Commit records the current run as a session: appends it to the history,
// adds the elapsed time to both ledgers, and resets the clock to idle.
// Returns ErrSessionTooShort below one second and ErrLedgerOverflow when a
// total would wrap; in both cases nothing is mutated.
func (s *StopwatchService) Commit(ctx context.Context, userID string) (*model.SessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkRollover(ctx, userID)

	st := s.state(userID)
	now := s.now()
	elapsed := s.elapsedOf(st).Milliseconds()
	if elapsed < 1000 {
		return nil, ErrSessionTooShort
	}

	entry := model.SessionEntry{
		Duration:  elapsed,
		Formatted: FormatClock(elapsed),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04:05"),
		Timestamp: now.UnixMilli(),
	}
	if !entry.Valid() {
		s.logger.Error("invalid session entry rejected", "user_id", userID, "duration_ms", elapsed)
		return nil, fmt.Errorf("commit session: entry failed validation")
	}

	today := s.ledgers.LoadLedger(ctx, todayKeyPrefix+userID)
	allTime := s.ledgers.LoadLedger(ctx, allTimeKeyPrefix+userID)

	// Both totals are guarded before either is mutated, so an overflow on
	// the all-time ledger cannot leave today's half-applied.
	newToday := today.Total + elapsed
	newAllTime := allTime.Total + elapsed
	if newToday < today.Total || newAllTime < allTime.Total {
		s.logger.Error("ledger overflow detected, commit aborted", "user_id", userID, "elapsed_ms", elapsed)
		return nil, ErrLedgerOverflow
	}

	history := s.ledgers.LoadHistory(ctx, historyKeyPrefix+userID)
	history = append([]model.SessionEntry{entry}, history...)
	if len(history) > model.HistoryLimit {
		history = history[:model.HistoryLimit]
	}

	today.Total = newToday
	today.Sessions++
	allTime.Total = newAllTime
	allTime.Sessions++

	st.elapsed = 0
	st.running = false

	// Persistence is best-effort; in-memory state stays authoritative until
	// the next successful save.
	if err := s.ledgers.SaveLedger(ctx, todayKeyPrefix+userID, today); err != nil {
		s.logger.Error("failed to save today ledger", "user_id", userID, "error", err)
	}
	if err := s.ledgers.SaveLedger(ctx, allTimeKeyPrefix+userID, allTime); err != nil {
		s.logger.Error("failed to save all-time ledger", "user_id", userID, "error", err)
	}
	if err := s.ledgers.SaveHistory(ctx, historyKeyPrefix+userID, history); err != nil {
		s.logger.Error("failed to save session history", "user_id", userID, "error", err)
	}

	return &entry, nil
}

// ClearAll resets both ledgers, the session history, and the clock. The
// confirmation prompt is the UI's responsibility.
func (s *StopwatchService) ClearAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(userID)
	st.elapsed = 0
	st.running = false

	if err := s.ledgers.SaveLedger(ctx, todayKeyPrefix+userID, model.LedgerRecord{}); err != nil {
		return err
	}
	if err := s.ledgers.SaveLedger(ctx, allTimeKeyPrefix+userID, model.LedgerRecord{}); err != nil {
		return err
	}
	if err := s.ledgers.SaveHistory(ctx, historyKeyPrefix+userID, nil); err != nil {
		return err
	}
	return nil
}

// checkRollover resets the today ledger when the stored calendar date
// differs from the current one. All-time and history are untouched.
// Callers must hold s.mu.
func (s *StopwatchService) checkRollover(ctx context.Context, userID string) {
	today := s.now().Format("2006-01-02")
	last := s.ledgers.LoadLastDate(ctx, lastDateKeyPrefix+userID)
	if last == today {
		return
	}

	if err := s.ledgers.SaveLastDate(ctx, lastDateKeyPrefix+userID, today); err != nil {
		s.logger.Error("failed to save rollover date", "user_id", userID, "error", err)
	}
	if last != "" {
		s.logger.Info("daily rollover", "user_id", userID, "previous", last, "current", today)
	}
	if err := s.ledgers.SaveLedger(ctx, todayKeyPrefix+userID, model.LedgerRecord{}); err != nil {
		s.logger.Error("failed to reset today ledger", "user_id", userID, "error", err)
	}
}

func (s *StopwatchService) state(userID string) *stopwatchState {
	st, ok := s.states[userID]
	if !ok {
		st = &stopwatchState{}
		s.states[userID] = st
	}
	return st
}

func (s *StopwatchService) elapsedOf(st *stopwatchState) time.Duration {
	if st.running {
		return s.now().Sub(st.startRef)
	}
	return st.elapsed
}

// FormatClock renders milliseconds as zero-padded HH:MM:SS with unbounded hours.
func FormatClock(ms int64) string {
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
