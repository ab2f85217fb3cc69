package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mmynk/youome/internal/models"
)

func TestPlanKey(t *testing.T) {
	if got := PlanKey(models.AllGroups); got != "plan:all" {
		t.Errorf("PlanKey(all) = %q", got)
	}
	if got := PlanKey(models.GroupScope("g1")); got != "plan:group:g1" {
		t.Errorf("PlanKey(g1) = %q", got)
	}
}

// exercise runs the behaviour every Cache shares.
func exercise(t *testing.T, c Cache) {
	ctx := context.Background()
	plan := []models.Transfer{{From: "B", To: "A", Amount: 50, Currency: "USD"}}

	if _, ok, err := c.GetPlan(ctx, models.GroupScope("g1")); err != nil || ok {
		t.Fatalf("Expected miss on empty cache, got ok=%v err=%v", ok, err)
	}

	if err := c.SetPlan(ctx, models.GroupScope("g1"), plan); err != nil {
		t.Fatalf("SetPlan failed: %v", err)
	}
	if err := c.SetPlan(ctx, models.AllGroups, plan); err != nil {
		t.Fatalf("SetPlan failed: %v", err)
	}
	if err := c.SetPlan(ctx, models.GroupScope("g2"), []models.Transfer{}); err != nil {
		t.Fatalf("SetPlan failed: %v", err)
	}

	got, ok, err := c.GetPlan(ctx, models.GroupScope("g1"))
	if err != nil || !ok {
		t.Fatalf("Expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != plan[0] {
		t.Errorf("Unexpected plan: %+v", got)
	}

	// An empty plan is still a hit.
	got, ok, err = c.GetPlan(ctx, models.GroupScope("g2"))
	if err != nil || !ok || len(got) != 0 {
		t.Errorf("Expected cached empty plan, got %+v ok=%v err=%v", got, ok, err)
	}

	if err := InvalidateGroup(ctx, c, "g1"); err != nil {
		t.Fatalf("InvalidateGroup failed: %v", err)
	}
	if _, ok, _ := c.GetPlan(ctx, models.GroupScope("g1")); ok {
		t.Error("Expected g1 plan to be invalidated")
	}
	if _, ok, _ := c.GetPlan(ctx, models.AllGroups); ok {
		t.Error("Expected all-groups plan to be invalidated")
	}
	if _, ok, _ := c.GetPlan(ctx, models.GroupScope("g2")); !ok {
		t.Error("Expected g2 plan to survive")
	}
}

func TestInMemoryCache(t *testing.T) {
	exercise(t, NewInMemoryCache(0))
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(time.Minute)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.SetPlan(ctx, models.AllGroups, []models.Transfer{{From: "B", To: "A", Amount: 1}}); err != nil {
		t.Fatalf("SetPlan failed: %v", err)
	}
	if _, ok, _ := c.GetPlan(ctx, models.AllGroups); !ok {
		t.Fatal("Expected hit before expiry")
	}
	now = now.Add(time.Minute)
	if _, ok, _ := c.GetPlan(ctx, models.AllGroups); ok {
		t.Error("Expected miss after expiry")
	}
}

func TestInMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewInMemoryCache(0)
	ctx := context.Background()
	plan := []models.Transfer{{From: "B", To: "A", Amount: 1}}
	if err := c.SetPlan(ctx, models.AllGroups, plan); err != nil {
		t.Fatalf("SetPlan failed: %v", err)
	}
	plan[0].Amount = 99

	got, _, _ := c.GetPlan(ctx, models.AllGroups)
	got[0].Amount = 42
	again, _, _ := c.GetPlan(ctx, models.AllGroups)
	if again[0].Amount != 1 {
		t.Errorf("Expected cached amount 1, got %.2f", again[0].Amount)
	}
}

// TestRedisCache runs against a live server when REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, Config{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer c.Close()
	if err := c.Invalidate(ctx, models.GroupScope("g1"), models.GroupScope("g2"), models.AllGroups); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	exercise(t, c)
}
