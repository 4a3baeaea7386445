package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.AuthSessionStore   = (*AuthSessionRepo)(nil)
	_ driven.PasswordResetStore = (*AuthSessionRepo)(nil)
)

// AuthSessionRepo is the SQLite implementation of the AuthSessionStore and
// PasswordResetStore port interfaces.
type AuthSessionRepo struct {
	db *DB
}

// NewAuthSessionRepo creates a new AuthSessionRepo backed by the given DB.
func NewAuthSessionRepo(db *DB) *AuthSessionRepo {
	return &AuthSessionRepo{db: db}
}

// Insert stores a new login session.
func (r *AuthSessionRepo) Insert(ctx context.Context, s model.AuthSession) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO auth_sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, s.Token, s.UserID, createdAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("insert auth session: %w", err)
	}
	return nil
}

// Get retrieves a login session by token. Returns nil, nil if unknown.
func (r *AuthSessionRepo) Get(ctx context.Context, token string) (*model.AuthSession, error) {
	const query = `SELECT token, user_id, created_at, expires_at FROM auth_sessions WHERE token = ?`

	var s model.AuthSession
	var createdAt, expiresAt string
	err := r.db.Reader.QueryRowContext(ctx, query, token).Scan(&s.Token, &s.UserID, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get auth session: %w", err)
	}

	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return &s, nil
}

// Delete removes a login session. Deleting an unknown token is a no-op.
func (r *AuthSessionRepo) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM auth_sessions WHERE token = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete auth session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry.
func (r *AuthSessionRepo) DeleteExpired(ctx context.Context) error {
	return r.deleteExpiredBefore(ctx, time.Now().UTC())
}

// deleteExpiredBefore removes sessions whose expiry is at or before cutoff.
// julianday puts both sides on a numeric timeline; the stored strings carry
// variable-width fractional seconds and do not compare correctly as text.
func (r *AuthSessionRepo) deleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	const query = `DELETE FROM auth_sessions WHERE julianday(expires_at) <= julianday(?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, cutoff); err != nil {
		return fmt.Errorf("delete expired auth sessions: %w", err)
	}
	return nil
}

// InsertReset records a password reset request.
func (r *AuthSessionRepo) InsertReset(ctx context.Context, reset model.PasswordReset) error {
	createdAt := reset.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO password_resets (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, reset.Token, reset.UserID, createdAt, reset.ExpiresAt); err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}
