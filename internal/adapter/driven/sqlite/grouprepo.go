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

// Compile-time interface satisfaction check.
var _ driven.GroupStore = (*GroupRepo)(nil)

// GroupRepo is the SQLite implementation of the GroupStore port interface.
// Membership lives in a separate group_members table whose primary key gives
// the no-duplicates guarantee; join order is preserved via joined_at.
type GroupRepo struct {
	db *DB
}

// NewGroupRepo creates a new GroupRepo backed by the given DB.
func NewGroupRepo(db *DB) *GroupRepo {
	return &GroupRepo{db: db}
}

// Insert stores a new group and its initial membership list. A zero CreatedAt
// is replaced with the current time, mirroring a server-assigned timestamp.
func (r *GroupRepo) Insert(ctx context.Context, g model.Group) error {
	createdAt := g.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `INSERT INTO groups (id, name, description, created_by, created_at, max_size) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, g.ID, g.Name, g.Description, g.CreatedBy, createdAt, g.MaxSize); err != nil {
		return fmt.Errorf("insert group %s: %w", g.ID, err)
	}

	for _, member := range g.Members {
		if err := r.AddMember(ctx, g.ID, member); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a group and its members. Returns nil, nil if the group
// does not exist.
func (r *GroupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	const query = `SELECT id, name, description, created_by, created_at, max_size FROM groups WHERE id = ?`

	g, err := scanGroup(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group %s: %w", id, err)
	}

	members, err := r.membersOf(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Members = members

	return g, nil
}

// ListAll returns all groups with their members, newest first.
func (r *GroupRepo) ListAll(ctx context.Context) ([]model.Group, error) {
	const query = `SELECT id, name, description, created_by, created_at, max_size FROM groups ORDER BY created_at DESC, id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	index := make(map[string]int)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	const memberQuery = `SELECT group_id, user_id FROM group_members ORDER BY joined_at, rowid`
	memberRows, err := r.db.Reader.QueryContext(ctx, memberQuery)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var groupID, userID string
		if err := memberRows.Scan(&groupID, &userID); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].Members = append(groups[i].Members, userID)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group members: %w", err)
	}

	return groups, nil
}

// AddMember appends a user to the membership list. Re-adding an existing
// member is a no-op (set-union semantics).
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	const query = `INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, groupID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add member %s to group %s: %w", userID, groupID, err)
	}
	return nil
}

// RemoveMember removes a user from the membership list. Removing a
// non-member is a no-op.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	const query = `DELETE FROM group_members WHERE group_id = ? AND user_id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("remove member %s from group %s: %w", userID, groupID, err)
	}
	return nil
}

// Delete removes a group and, via cascade, its membership rows. Deleting an
// already-deleted group is a benign no-op.
func (r *GroupRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM groups WHERE id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	return nil
}

func (r *GroupRepo) membersOf(ctx context.Context, groupID string) ([]string, error) {
	const query = `SELECT user_id FROM group_members WHERE group_id = ? ORDER BY joined_at, rowid`

	rows, err := r.db.Reader.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(s scanner) (*model.Group, error) {
	var g model.Group
	var createdAt string

	err := s.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &createdAt, &g.MaxSize)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &g, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
