package driven

import (
	"context"

	"github.com/amckenna/studyhub/internal/domain/model"
)

// AuthSessionStore defines the driven port for login session persistence.
// Get returns nil, nil when the token is unknown.
type AuthSessionStore interface {
	Insert(ctx context.Context, s model.AuthSession) error
	Get(ctx context.Context, token string) (*model.AuthSession, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

// PasswordResetStore records password reset requests.
type PasswordResetStore interface {
	InsertReset(ctx context.Context, r model.PasswordReset) error
}
