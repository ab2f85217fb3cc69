// Package service is the in-process facade over the ledger: it validates
// requests, resolves participants, runs the splitter and planner, and keeps
// the plan cache and metrics in step with every mutation.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mmynk/youome/internal/cache"
	"github.com/mmynk/youome/internal/ledger"
	"github.com/mmynk/youome/internal/metrics"
	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/storage"
	"github.com/mmynk/youome/internal/validation"
)

// Service implements the ledger operations on top of a store.
type Service struct {
	store    storage.Store
	ledger   *ledger.Ledger
	cache    cache.Cache
	metrics  *metrics.Metrics
	validate *validation.Validator
	now      func() time.Time

	// generation changes on every ledger mutation, before the cache is
	// invalidated. A plan computed across a change is returned but not
	// left in the cache.
	generation atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches settlement plans in c.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics reports to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. The ledger must be backed by the same store.
func New(store storage.Store, l *ledger.Ledger, opts ...Option) (*Service, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	s := &Service{
		store:    store,
		ledger:   l,
		validate: v,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// mutated records a ledger change in groupID and drops the plans it affects.
func (s *Service) mutated(ctx context.Context, groupID string) {
	s.generation.Add(1)
	if s.cache == nil {
		return
	}
	if err := cache.InvalidateGroup(ctx, s.cache, groupID); err != nil {
		slog.Warn("Failed to invalidate plan cache", "group_id", groupID, "error", err)
	}
}

// viewer returns userID, or the current user's ID when userID is empty.
func (s *Service) viewer(ctx context.Context, userID string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	u, err := s.store.GetCurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: no user given and no current user set", models.ErrInvalidInput)
	}
	return u.ID, nil
}

func (s *Service) checkScope(ctx context.Context, scope models.Scope) error {
	if scope.IsAll() {
		return nil
	}
	if _, err := s.store.GetGroup(ctx, scope.GroupID); err != nil {
		return err
	}
	return nil
}
