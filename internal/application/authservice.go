package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// Sentinel errors returned by AuthService.
var (
	// ErrInvalidEmail indicates a syntactically invalid email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword indicates the password is below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two cases are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRateLimited indicates too many attempts inside the sliding window.
	ErrRateLimited = errors.New("too many attempts")

	// ErrNotAuthenticated indicates a missing, unknown, or expired session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPasswordLen = 8
	maxEmailLen    = 254
	resetTTL       = time.Hour
)

// AuthService is the identity gateway: account creation, credential checks,
// login session issuance, and password reset requests. Authentication
// attempts are rate limited per key with a process-lifetime sliding window.
type AuthService struct {
	users    driven.UserStore
	sessions driven.AuthSessionStore
	resets   driven.PasswordResetStore
	limiter  *rateLimiter
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService. ttl is the login session lifetime;
// window and maxAttempts configure the rate limiter.
func NewAuthService(
	users driven.UserStore,
	sessions driven.AuthSessionStore,
	resets driven.PasswordResetStore,
	ttl time.Duration,
	window time.Duration,
	maxAttempts int,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		resets:   resets,
		limiter:  newRateLimiter(window, maxAttempts),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// SignUp validates the credentials, hashes the password, and creates the
// account. The account starts unverified; verification mail delivery is
// outside this service. Returns driven.ErrEmailTaken on a duplicate email.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if !s.limiter.Allow("signup_" + email) {
		return nil, ErrRateLimited
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "user_id", u.ID)
	return &u, nil
}

// SignIn checks the credentials and issues a new login session. Unknown
// email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.AuthSession, *model.User, error) {
	if !validEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if !s.limiter.Allow("signin_" + email) {
		return nil, nil, ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("sign in: %w", err)
	}
	if u == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := model.AuthSession{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("sign in: %w", err)
	}

	s.logger.Info("signed in", "user_id", u.ID)
	return &session, u, nil
}

// SignOut deletes the login session and opportunistically sweeps expired
// sessions. Unknown tokens are a no-op.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := s.sessions.DeleteExpired(ctx); err != nil {
		s.logger.Warn("expired session sweep failed", "error", err)
	}
	return nil
}

// RequestPasswordReset records a reset request for the account if one
// exists. It reports success either way so callers cannot discover which
// emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	if !s.limiter.Allow("reset_" + email) {
		return ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("password reset: %w", err)
	}
	if u == nil {
		return nil
	}

	now := s.now().UTC()
	reset := model.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(resetTTL),
	}
	if err := s.resets.InsertReset(ctx, reset); err != nil {
		return fmt.Errorf("password reset: %w", err)
	}

	s.logger.Info("password reset requested", "user_id", u.ID)
	return nil
}

// CurrentUser resolves a session token to its user. Expired sessions are
// deleted on sight and reported as ErrNotAuthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if session == nil {
		return nil, ErrNotAuthenticated
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to delete expired session", "error", err)
		}
		return nil, ErrNotAuthenticated
	}

	u, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve session user: %w", err)
	}
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

func validEmail(email string) bool {
	return len(email) <= maxEmailLen && emailPattern.MatchString(email)
}
