package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/youome/internal/models"
)

const groupColumns = "id, name, currency, category, created_at"

// CreateGroup persists a group and its initial members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		s.q("INSERT INTO ledger_groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?)"),
		group.ID, group.Name, group.Currency, group.Category, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group %s: %w", group.ID, constraintError(err))
	}

	if err := s.addMembers(ctx, tx, group.ID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// addMembers appends the memberships that do not exist yet, after the
// group's current members. Unknown users fail with ErrNotFound.
func (s *Store) addMembers(ctx context.Context, tx *sql.Tx, groupID string, userIDs []string) error {
	var next int
	err := tx.QueryRowContext(ctx,
		s.q("SELECT COALESCE(MAX(position) + 1, 0) FROM group_members WHERE group_id = ?"),
		groupID,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to read member positions: %w", err)
	}

	for _, userID := range userIDs {
		ok, err := exists(ctx, tx, s.q("SELECT 1 FROM users WHERE id = ?"), userID)
		if err != nil {
			return fmt.Errorf("failed to look up member: %w", err)
		}
		if !ok {
			return fmt.Errorf("member %s: %w", userID, models.ErrNotFound)
		}

		member, err := exists(ctx, tx, s.q("SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?"), groupID, userID)
		if err != nil {
			return fmt.Errorf("failed to look up membership: %w", err)
		}
		if member {
			continue
		}

		_, err = tx.ExecContext(ctx,
			s.q("INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)"),
			groupID, userID, next,
		)
		if err != nil {
			return fmt.Errorf("failed to add member %s: %w", userID, constraintError(err))
		}
		next++
	}
	return nil
}

// AddMembers adds users to an existing group.
func (s *Store) AddMembers(ctx context.Context, groupID string, userIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, s.q("SELECT 1 FROM ledger_groups WHERE id = ?"), groupID)
	if err != nil {
		return fmt.Errorf("failed to look up group: %w", err)
	}
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}

	if err := s.addMembers(ctx, tx, groupID, userIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) members(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q("SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position"),
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetGroup retrieves a group with its members.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		s.q("SELECT "+groupColumns+" FROM ledger_groups WHERE id = ?"),
		groupID,
	).Scan(&group.ID, &group.Name, &group.Currency, &group.Category, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Members, err = s.members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns every group with its members, oldest first.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+groupColumns+" FROM ledger_groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups := make([]*models.Group, 0)
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Currency, &group.Category, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	// Members are loaded after the cursor is closed so a single-connection
	// pool does not deadlock.
	for _, group := range groups {
		if group.Members, err = s.members(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// DeleteGroup removes a group. Memberships, expenses and debts cascade.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, s.q("DELETE FROM ledger_groups WHERE id = ?"), groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	return nil
}
