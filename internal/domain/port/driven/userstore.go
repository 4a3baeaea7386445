package driven

import (
	"context"
	"errors"

	"github.com/amckenna/studyhub/internal/domain/model"
)

// ErrEmailTaken indicates an account with the same email already exists.
var ErrEmailTaken = errors.New("email already in use")

// UserStore defines the driven port for account persistence.
// Insert returns ErrEmailTaken on a duplicate email. Lookups return nil, nil
// when no matching user exists.
type UserStore interface {
	Insert(ctx context.Context, u model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}
