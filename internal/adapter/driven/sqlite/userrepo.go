package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Insert stores a new user. Returns ErrEmailTaken when an account with the
// same email already exists.
func (r *UserRepo) Insert(ctx context.Context, u model.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO users (id, email, password_hash, email_verified, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.EmailVerified, createdAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("insert user %s: %w", u.Email, driven.ErrEmailTaken)
		}
		return fmt.Errorf("insert user %s: %w", u.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by email. Returns nil, nil if no such user.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, email_verified, created_at FROM users WHERE email = ?`

	u, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

// GetByID retrieves a user by id. Returns nil, nil if no such user.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT id, email, password_hash, email_verified, created_at FROM users WHERE id = ?`

	u, err := scanUser(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	return u, nil
}

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	var createdAt string

	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.EmailVerified, &createdAt)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &u, nil
}
