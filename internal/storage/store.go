// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/youome/internal/models"
)

// Store defines the Ledger Store: durable records for users, groups,
// memberships, expenses and debts.
// This abstraction allows swapping storage backends (memory, SQLite,
// PostgreSQL, MySQL) without changing the ledger or service layer.
//
// Lookups of missing records return an error wrapping models.ErrNotFound.
// Creating a record whose ID already exists returns models.ErrConflict.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are filled in when
	// empty. Creating a current user demotes any previous current user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns every user ordered by name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// GetCurrentUser returns the current user, or ErrNotFound if none is set.
	GetCurrentUser(ctx context.Context) (*models.User, error)

	// SetCurrentUser promotes a user and demotes every other user.
	SetCurrentUser(ctx context.Context, userID string) error

	// CreateGroup persists a group and its initial members. ID and
	// CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns every group with its members, oldest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group with its memberships, expenses and debts.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddMembers adds users to a group. Existing members are ignored.
	AddMembers(ctx context.Context, groupID string, userIDs []string) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns the expenses matching the filter, newest first.
	ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error)

	// ListDebts returns the debts matching the filter.
	ListDebts(ctx context.Context, filter models.DebtFilter) ([]models.Debt, error)

	// CommitDebts writes the expense (when non-nil) and upserts the debts
	// by key in a single transaction. Nothing is written on error.
	CommitDebts(ctx context.Context, expense *models.Expense, debts []models.Debt) error

	// MarkSettled flags the given debts settled at settledAt in a single
	// transaction. Keys that are missing or already settled are skipped.
	// Returns the number of debts that changed.
	MarkSettled(ctx context.Context, keys []models.DebtKey, settledAt int64) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
