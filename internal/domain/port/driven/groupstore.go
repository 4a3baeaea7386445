package driven

import (
	"context"
	"errors"

	"github.com/amckenna/studyhub/internal/domain/model"
)

// ErrGroupNotFound indicates the requested group does not exist.
var ErrGroupNotFound = errors.New("group not found")

// GroupStore defines the driven port for group persistence.
// GetByID returns nil, nil when the group does not exist.
// AddMember is idempotent: re-adding an existing member is a no-op, matching
// set-union semantics. Delete of an absent group is a benign no-op.
type GroupStore interface {
	Insert(ctx context.Context, g model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	ListAll(ctx context.Context) ([]model.Group, error)
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	Delete(ctx context.Context, id string) error
}
