// Package memory provides an in-memory implementation of storage.Store.
// It keeps everything in maps guarded by one RWMutex and is used by tests
// and by the server when DB_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store in memory.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	groups   map[string]models.Group
	members  map[string][]string // group ID -> member IDs in insertion order
	expenses map[string]models.Expense
	debts    map[models.DebtKey]models.Debt
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		groups:   make(map[string]models.Group),
		members:  make(map[string][]string),
		expenses: make(map[string]models.Expense),
		debts:    make(map[models.DebtKey]models.Debt),
	}
}

// Close is a noop
func (s *Store) Close() error { return nil }

func now() int64 { return time.Now().UnixMilli() }

// CreateUser adds a user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = now()
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("user %s: %w", user.ID, models.ErrConflict)
	}
	if user.IsCurrentUser {
		s.clearCurrentUser()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) clearCurrentUser() {
	for id, u := range s.users {
		if u.IsCurrentUser {
			u.IsCurrentUser = false
			s.users[id] = u
		}
	}
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// GetCurrentUser returns the user flagged as current.
func (s *Store) GetCurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.IsCurrentUser {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("current user: %w", models.ErrNotFound)
}

// SetCurrentUser promotes userID and demotes everyone else.
func (s *Store) SetCurrentUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	s.clearCurrentUser()
	u.IsCurrentUser = true
	s.users[userID] = u
	return nil
}

// CreateGroup adds a group and its members.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = now()
	}
	if _, exists := s.groups[group.ID]; exists {
		return fmt.Errorf("group %s: %w", group.ID, models.ErrConflict)
	}
	for _, m := range group.Members {
		if _, ok := s.users[m]; !ok {
			return fmt.Errorf("member %s: %w", m, models.ErrNotFound)
		}
	}

	stored := *group
	stored.Members = nil
	s.groups[group.ID] = stored
	s.members[group.ID] = appendMissing(nil, group.Members)
	group.Members = append([]string(nil), s.members[group.ID]...)
	return nil
}

// appendMissing appends the ids not already present, preserving order.
func appendMissing(members, ids []string) []string {
	seen := make(map[string]bool, len(members)+len(ids))
	for _, m := range members {
		seen[m] = true
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	return members
}

func (s *Store) groupLocked(groupID string) (*models.Group, bool) {
	g, ok := s.groups[groupID]
	if !ok {
		return nil, false
	}
	g.Members = append([]string(nil), s.members[groupID]...)
	return &g, true
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groupLocked(groupID)
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	return g, nil
}

// ListGroups returns all groups, oldest first.
func (s *Store) ListGroups(ctx context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]*models.Group, 0, len(s.groups))
	for id := range s.groups {
		g, _ := s.groupLocked(id)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// DeleteGroup removes a group and cascades to its memberships, expenses
// and debts.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	delete(s.groups, groupID)
	delete(s.members, groupID)
	for id, e := range s.expenses {
		if e.GroupID == groupID {
			delete(s.expenses, id)
		}
	}
	for key := range s.debts {
		if key.GroupID == groupID {
			delete(s.debts, key)
		}
	}
	return nil
}

// AddMembers adds users to a group, ignoring existing members.
func (s *Store) AddMembers(ctx context.Context, groupID string, userIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	for _, id := range userIDs {
		if _, ok := s.users[id]; !ok {
			return fmt.Errorf("member %s: %w", id, models.ErrNotFound)
		}
	}
	s.members[groupID] = appendMissing(s.members[groupID], userIDs)
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", expenseID, models.ErrNotFound)
	}
	e.Participants = append([]string(nil), e.Participants...)
	return &e, nil
}

// ListExpenses returns the matching expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expenses := make([]*models.Expense, 0)
	for _, e := range s.expenses {
		e := e
		if !filter.Match(&e) {
			continue
		}
		e.Participants = append([]string(nil), e.Participants...)
		expenses = append(expenses, &e)
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].CreatedAt != expenses[j].CreatedAt {
			return expenses[i].CreatedAt > expenses[j].CreatedAt
		}
		return expenses[i].ID < expenses[j].ID
	})
	return expenses, nil
}

// ListDebts returns a copy of the matching debts ordered by key.
func (s *Store) ListDebts(ctx context.Context, filter models.DebtFilter) ([]models.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	debts := make([]models.Debt, 0)
	for _, d := range s.debts {
		if filter.Match(&d) {
			debts = append(debts, d)
		}
	}
	sort.Slice(debts, func(i, j int) bool {
		a, b := debts[i], debts[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		if a.DebtorID != b.DebtorID {
			return a.DebtorID < b.DebtorID
		}
		return a.CreditorID < b.CreditorID
	})
	return debts, nil
}

// CommitDebts stores the expense and upserts the debts atomically.
func (s *Store) CommitDebts(ctx context.Context, expense *models.Expense, debts []models.Debt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate everything before the first write so a failure leaves the
	// maps untouched.
	if expense != nil {
		if expense.ID == "" {
			expense.ID = uuid.New().String()
		}
		if expense.CreatedAt == 0 {
			expense.CreatedAt = now()
		}
		if _, exists := s.expenses[expense.ID]; exists {
			return fmt.Errorf("expense %s: %w", expense.ID, models.ErrConflict)
		}
		if _, ok := s.groups[expense.GroupID]; !ok {
			return fmt.Errorf("group %s: %w", expense.GroupID, models.ErrNotFound)
		}
	}
	for _, d := range debts {
		if _, ok := s.groups[d.GroupID]; !ok {
			return fmt.Errorf("group %s: %w", d.GroupID, models.ErrNotFound)
		}
	}

	if expense != nil {
		stored := *expense
		stored.Participants = append([]string(nil), expense.Participants...)
		s.expenses[expense.ID] = stored
	}
	for _, d := range debts {
		s.debts[d.Key()] = d
	}
	return nil
}

// MarkSettled flags the outstanding debts among keys as settled.
func (s *Store) MarkSettled(ctx context.Context, keys []models.DebtKey, settledAt int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, key := range keys {
		d, ok := s.debts[key]
		if !ok || d.Settled {
			continue
		}
		d.Settled = true
		d.SettledAt = settledAt
		d.UpdatedAt = settledAt
		s.debts[key] = d
		changed++
	}
	return changed, nil
}
