package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/amckenna/studyhub/internal/domain/model"
	"github.com/amckenna/studyhub/internal/domain/port/driven"
)

// Business-rule errors returned by GroupService.
var (
	// ErrInvalidGroupName indicates the name does not trim to 2-100 characters.
	ErrInvalidGroupName = errors.New("group name must be between 2 and 100 characters")

	// ErrInvalidDescription indicates the description exceeds the length cap.
	ErrInvalidDescription = errors.New("group description too long")

	// ErrAlreadyMember indicates the user is already in the group.
	ErrAlreadyMember = errors.New("already a member of this group")

	// ErrGroupFull indicates the group is at its capacity bound.
	ErrGroupFull = errors.New("group is full")
)

const maxDescriptionLen = 500

// GroupService implements group creation and membership changes over the
// GroupStore port and notifies the watch hub after every successful mutation
// so live listings refresh.
type GroupService struct {
	store        driven.GroupStore
	watch        *WatchHub
	groupMaxSize int
	logger       *slog.Logger
}

// NewGroupService creates a GroupService. groupMaxSize is the capacity
// assigned to newly created groups.
func NewGroupService(store driven.GroupStore, watch *WatchHub, groupMaxSize int, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:        store,
		watch:        watch,
		groupMaxSize: groupMaxSize,
		logger:       logger,
	}
}

// Create validates the name, inserts a new group with the creator as its
// only member, and returns the stored record.
func (s *GroupService) Create(ctx context.Context, userID, name, description string) (*model.Group, error) {
	// Length bounds count characters, not bytes, so multibyte names get the
	// full range.
	trimmed := strings.TrimSpace(name)
	if n := utf8.RuneCountInString(trimmed); n < 2 || n > 100 {
		return nil, ErrInvalidGroupName
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, ErrInvalidDescription
	}

	g := model.Group{
		ID:          uuid.NewString(),
		Name:        trimmed,
		Description: description,
		CreatedBy:   userID,
		Members:     []string{userID},
		MaxSize:     s.groupMaxSize,
	}

	if err := s.store.Insert(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.logger.Info("group created", "group_id", g.ID, "name", g.Name, "created_by", userID)
	s.watch.Notify()

	stored, err := s.store.GetByID(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return stored, nil
}

// Join adds the user to the group's membership list after capacity and
// duplicate checks.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) error {
	g, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("join group: %w", err)
	}
	if g == nil {
		return driven.ErrGroupNotFound
	}
	if g.HasMember(userID) {
		return ErrAlreadyMember
	}
	if g.IsFull() {
		return ErrGroupFull
	}

	if err := s.store.AddMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("join group: %w", err)
	}
	s.logger.Info("member joined", "group_id", groupID, "user_id", userID)
	s.watch.Notify()
	return nil
}

// Leave removes the user from the group, then deletes the group if the
// membership list is now empty. The two store calls are sequential, not
// transactional: the transient empty-but-present state is tolerated because
// only the leaving user triggers the deletion and deleting an already
// deleted group is a no-op.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	g, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	if g == nil {
		return driven.ErrGroupNotFound
	}

	if err := s.store.RemoveMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("leave group: %w", err)
	}

	updated, err := s.store.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("leave group: %w", err)
	}
	if updated != nil && len(updated.Members) == 0 {
		if err := s.store.Delete(ctx, groupID); err != nil {
			return fmt.Errorf("delete empty group: %w", err)
		}
		s.logger.Info("empty group deleted", "group_id", groupID)
	}

	s.logger.Info("member left", "group_id", groupID, "user_id", userID)
	s.watch.Notify()
	return nil
}

// List returns all groups, newest first.
func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	groups, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}
