package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mmynk/youome/internal/models"
)

type entry struct {
	plan    []models.Transfer
	expires time.Time
}

// InMemoryCache implements the Cache interface for an in memory cache.
type InMemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewInMemoryCache creates an instance of InMemoryCache. A ttl of zero
// keeps entries until they are invalidated.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// GetPlan returns a copy of the cached plan for scope.
func (c *InMemoryCache) GetPlan(_ context.Context, scope models.Scope) ([]models.Transfer, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := PlanKey(scope)
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]models.Transfer{}, e.plan...), true, nil
}

// SetPlan stores a copy of plan for scope.
func (c *InMemoryCache) SetPlan(_ context.Context, scope models.Scope, plan []models.Transfer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{plan: append([]models.Transfer{}, plan...)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[PlanKey(scope)] = e
	return nil
}

// Invalidate drops the plans of the given scopes.
func (c *InMemoryCache) Invalidate(_ context.Context, scopes ...models.Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, scope := range scopes {
		delete(c.entries, PlanKey(scope))
	}
	return nil
}
