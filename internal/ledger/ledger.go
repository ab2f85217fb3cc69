// Package ledger maintains the authoritative set of pairwise debts.
//
// Every mutation of a group runs under that group's lock and is committed
// to the store in one transaction, so readers never observe a partially
// applied expense. Different groups never contend.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/models"
)

// Store is the part of the Ledger Store the ledger depends on.
type Store interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListDebts(ctx context.Context, filter models.DebtFilter) ([]models.Debt, error)
	CommitDebts(ctx context.Context, expense *models.Expense, debts []models.Debt) error
	MarkSettled(ctx context.Context, keys []models.DebtKey, settledAt int64) (int, error)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithMergeStrategy selects how deltas combine with outstanding debts.
func WithMergeStrategy(s DebtMergeStrategy) Option {
	return func(l *Ledger) { l.strategy = s }
}

// WithClock overrides the time source used for debt timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Ledger applies debt deltas and settlements on top of a Store.
type Ledger struct {
	store    Store
	strategy DebtMergeStrategy
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*groupLock
}

// groupLock is a one-slot semaphore. refs counts holders and waiters; the
// entry is dropped when it reaches zero so deleted groups leave nothing
// behind.
type groupLock struct {
	sem  chan struct{}
	refs int
}

// New creates a Ledger backed by store.
func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		strategy: MergeReplace,
		now:      time.Now,
		locks:    make(map[string]*groupLock),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Strategy returns the merge strategy in use.
func (l *Ledger) Strategy() DebtMergeStrategy {
	return l.strategy
}

// lockGroup acquires the group's lock or gives up when ctx is done.
func (l *Ledger) lockGroup(ctx context.Context, groupID string) (func(), error) {
	l.mu.Lock()
	gl, ok := l.locks[groupID]
	if !ok {
		gl = &groupLock{sem: make(chan struct{}, 1)}
		l.locks[groupID] = gl
	}
	gl.refs++
	l.mu.Unlock()

	select {
	case gl.sem <- struct{}{}:
		return func() {
			<-gl.sem
			l.release(groupID, gl)
		}, nil
	case <-ctx.Done():
		l.release(groupID, gl)
		return nil, fmt.Errorf("waiting for group %s: %w", groupID, ctx.Err())
	}
}

func (l *Ledger) release(groupID string, gl *groupLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	gl.refs--
	if gl.refs == 0 {
		delete(l.locks, groupID)
	}
}

// lockCount reports how many group locks are held or awaited.
func (l *Ledger) lockCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Ledger) group(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", models.ErrInvalidInput)
	}
	g, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ApplyDelta merges a single delta into its group.
func (l *Ledger) ApplyDelta(ctx context.Context, delta models.DebtDelta) ([]models.Debt, error) {
	return l.apply(ctx, delta.GroupID, nil, []models.DebtDelta{delta})
}

// ApplyDeltas merges deltas into groupID atomically. Deltas with an empty
// GroupID are assigned to groupID. It returns the group's outstanding debts
// after the merge.
func (l *Ledger) ApplyDeltas(ctx context.Context, groupID string, deltas []models.DebtDelta) ([]models.Debt, error) {
	return l.apply(ctx, groupID, nil, deltas)
}

// Record stores expense together with the deltas derived from it in one
// transaction.
func (l *Ledger) Record(ctx context.Context, expense *models.Expense, deltas []models.DebtDelta) ([]models.Debt, error) {
	if expense == nil {
		return nil, fmt.Errorf("%w: expense is required", models.ErrInvalidInput)
	}
	return l.apply(ctx, expense.GroupID, expense, deltas)
}

func (l *Ledger) apply(ctx context.Context, groupID string, expense *models.Expense, deltas []models.DebtDelta) ([]models.Debt, error) {
	g, err := l.group(ctx, groupID)
	if err != nil {
		return nil, err
	}

	unlock, err := l.lockGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := l.store.ListDebts(ctx, models.DebtFilter{GroupID: groupID})
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	current := make(map[models.DebtKey]*models.Debt, len(existing))
	for i := range existing {
		current[existing[i].Key()] = &existing[i]
	}

	now := l.now().UnixMilli()
	var order []models.DebtKey
	pending := make(map[models.DebtKey]*models.Debt)
	for _, delta := range deltas {
		if delta.GroupID == "" {
			delta.GroupID = groupID
		}
		if delta.GroupID != groupID {
			return nil, fmt.Errorf("%w: delta for group %s applied to group %s", models.ErrInvalidInput, delta.GroupID, groupID)
		}
		if delta.DebtorID == delta.CreditorID {
			continue
		}
		if !(delta.Amount > 0) {
			return nil, fmt.Errorf("%w: delta %s->%s amount %v", models.ErrInvalidAmount, delta.DebtorID, delta.CreditorID, delta.Amount)
		}
		if delta.Currency == "" {
			delta.Currency = g.Currency
		}

		key := delta.Key()
		base, seen := pending[key]
		if !seen {
			base = current[key]
			order = append(order, key)
		}
		merged, err := l.strategy.merge(base, delta, now)
		if err != nil {
			return nil, err
		}
		pending[key] = &merged
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	writes := make([]models.Debt, 0, len(order))
	for _, key := range order {
		writes = append(writes, *pending[key])
	}
	if err := l.store.CommitDebts(ctx, expense, writes); err != nil {
		return nil, fmt.Errorf("failed to commit debts: %w", err)
	}

	slog.Debug("Debts merged",
		"group_id", groupID,
		"deltas", len(deltas),
		"written", len(writes),
		"strategy", l.strategy.String(),
	)

	return l.store.ListDebts(ctx, models.DebtFilter{GroupID: groupID, Unsettled: true})
}

// NetBalance returns userID's credit minus debt over the outstanding debts
// in scope. It returns ErrCurrencyMismatch when those debts span more than
// one currency.
func (l *Ledger) NetBalance(ctx context.Context, userID string, scope models.Scope) (float64, error) {
	balances, err := l.NetBalances(ctx, userID, scope)
	if err != nil {
		return 0, err
	}
	switch len(balances) {
	case 0:
		return 0, nil
	case 1:
		for _, bal := range balances {
			return bal, nil
		}
	}
	return 0, fmt.Errorf("%w: user %s has balances in %d currencies", models.ErrCurrencyMismatch, userID, len(balances))
}

// NetBalances returns userID's net balance per currency in scope.
func (l *Ledger) NetBalances(ctx context.Context, userID string, scope models.Scope) (map[string]float64, error) {
	if !scope.IsAll() {
		if _, err := l.group(ctx, scope.GroupID); err != nil {
			return nil, err
		}
	}
	filter := scope.Filter()
	filter.UserID = userID
	debts, err := l.store.ListDebts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}
	return calculator.UserBalances(debts, userID), nil
}

// SettleGroup marks every outstanding debt in the group settled and returns
// how many changed. Settling a settled group is a no-op.
func (l *Ledger) SettleGroup(ctx context.Context, groupID string) (int, error) {
	if _, err := l.group(ctx, groupID); err != nil {
		return 0, err
	}

	unlock, err := l.lockGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	open, err := l.store.ListDebts(ctx, models.DebtFilter{GroupID: groupID, Unsettled: true})
	if err != nil {
		return 0, fmt.Errorf("failed to load debts: %w", err)
	}
	if len(open) == 0 {
		return 0, nil
	}
	keys := make([]models.DebtKey, len(open))
	for i, d := range open {
		keys[i] = d.Key()
	}

	n, err := l.store.MarkSettled(ctx, keys, l.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to settle group: %w", err)
	}
	slog.Debug("Group settled", "group_id", groupID, "debts", n)
	return n, nil
}

// SettleOne settles the debt debtorID owes creditorID in the group. It
// reports false when the debt was already settled.
func (l *Ledger) SettleOne(ctx context.Context, groupID, debtorID, creditorID string) (bool, error) {
	if _, err := l.group(ctx, groupID); err != nil {
		return false, err
	}

	unlock, err := l.lockGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	defer unlock()

	key := models.DebtKey{GroupID: groupID, DebtorID: debtorID, CreditorID: creditorID}
	debts, err := l.store.ListDebts(ctx, models.DebtFilter{GroupID: groupID, UserID: debtorID})
	if err != nil {
		return false, fmt.Errorf("failed to load debts: %w", err)
	}
	var found *models.Debt
	for i := range debts {
		if debts[i].Key() == key {
			found = &debts[i]
			break
		}
	}
	if found == nil {
		return false, fmt.Errorf("debt %s->%s in group %s: %w", debtorID, creditorID, groupID, models.ErrNotFound)
	}
	if found.Settled {
		return false, nil
	}

	n, err := l.store.MarkSettled(ctx, []models.DebtKey{key}, l.now().UnixMilli())
	if err != nil {
		return false, fmt.Errorf("failed to settle debt: %w", err)
	}
	return n == 1, nil
}

// Debts returns a snapshot of the debts matching filter.
func (l *Ledger) Debts(ctx context.Context, filter models.DebtFilter) ([]models.Debt, error) {
	if filter.GroupID != "" {
		if _, err := l.group(ctx, filter.GroupID); err != nil {
			return nil, err
		}
	}
	return l.store.ListDebts(ctx, filter)
}
