// Package cache stores computed settlement plans between ledger mutations.
package cache

import (
	"context"

	"github.com/mmynk/youome/internal/models"
)

// Cache is an interface used for caching settlement plans by scope.
type Cache interface {
	// GetPlan returns the cached plan and whether it was present.
	GetPlan(ctx context.Context, scope models.Scope) ([]models.Transfer, bool, error)
	// SetPlan stores the plan for scope.
	SetPlan(ctx context.Context, scope models.Scope, plan []models.Transfer) error
	// Invalidate drops the plans of the given scopes.
	Invalidate(ctx context.Context, scopes ...models.Scope) error
}

// PlanKey makes a cache key from a scope.
func PlanKey(scope models.Scope) string {
	return "plan:" + scope.String()
}

// InvalidateGroup drops the cached plans a change to groupID affects: the
// group's own plan and the all-groups plan.
func InvalidateGroup(ctx context.Context, c Cache, groupID string) error {
	return c.Invalidate(ctx, models.GroupScope(groupID), models.AllGroups)
}
