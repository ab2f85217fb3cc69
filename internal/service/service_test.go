package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/youome/internal/cache"
	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/ledger"
	"github.com/mmynk/youome/internal/metrics"
	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/storage/memory"
)

// Thursday
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	cache *cache.InMemoryCache
	group *models.Group
	users map[string]*models.User // by name
}

func setupService(t *testing.T, strategy ledger.DebtMergeStrategy) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.New()
	clock := func() time.Time { return testNow }
	l := ledger.New(store, ledger.WithMergeStrategy(strategy), ledger.WithClock(clock))
	c := cache.NewInMemoryCache(0)
	svc, err := New(store, l,
		WithCache(c),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
		WithClock(clock),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	users := make(map[string]*models.User)
	for _, name := range []string{"A", "B", "C", "D"} {
		u, err := svc.CreateUser(ctx, CreateUserRequest{Name: name, IsCurrentUser: name == "A"})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		users[name] = u
	}

	group, err := svc.CreateGroup(ctx, CreateGroupRequest{
		Name:      "Trip",
		MemberIDs: []string{users["B"].ID, users["C"].ID, users["D"].ID},
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return &fixture{svc: svc, cache: c, group: group, users: users}
}

func (f *fixture) id(name string) string { return f.users[name].ID }

func (f *fixture) record(t *testing.T, payer string, amount float64, participants ...string) []models.Debt {
	t.Helper()
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = f.id(p)
	}
	debts, err := f.svc.RecordExpense(context.Background(), RecordExpenseRequest{
		GroupID:      f.group.ID,
		Description:  "test",
		Amount:       amount,
		PayerID:      f.id(payer),
		Participants: ids,
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	return debts
}

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestCreateGroup_DefaultsAndCreator(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)

	if f.group.Currency != models.DefaultCurrency {
		t.Errorf("Expected default currency, got %q", f.group.Currency)
	}
	if f.group.Category != models.DefaultGroupCategory {
		t.Errorf("Expected default category, got %q", f.group.Category)
	}
	if len(f.group.Members) != 4 || !f.group.HasMember(f.id("A")) {
		t.Errorf("Expected current user plus 3 members, got %v", f.group.Members)
	}

	g, err := f.svc.CreateGroup(context.Background(), CreateGroupRequest{
		Name:           "Flat",
		Currency:       "EUR",
		NewMemberNames: []string{"Eve"},
	})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if len(g.Members) != 2 {
		t.Errorf("Expected creator and new member, got %v", g.Members)
	}
	users, err := f.svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 5 {
		t.Errorf("Expected 5 users after adding Eve, got %d", len(users))
	}
}

func TestRecordExpense_EqualSplitAndPlan(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()

	debts := f.record(t, "A", 200, "A", "B", "C", "D")
	if len(debts) != 3 {
		t.Fatalf("Expected 3 debts, got %d", len(debts))
	}
	for _, d := range debts {
		if d.CreditorID != f.id("A") || d.Amount != 50 {
			t.Errorf("Expected 50 owed to A, got %+v", d)
		}
	}

	bal, err := f.svc.GetNetBalance(ctx, "", models.GroupScope(f.group.ID))
	if err != nil {
		t.Fatalf("GetNetBalance failed: %v", err)
	}
	if bal != 150 {
		t.Errorf("Expected A balance 150, got %.2f", bal)
	}
	bal, err = f.svc.GetNetBalance(ctx, f.id("B"), models.AllGroups)
	if err != nil {
		t.Fatalf("GetNetBalance failed: %v", err)
	}
	if bal != -50 {
		t.Errorf("Expected B balance -50, got %.2f", bal)
	}

	plan, err := f.svc.GetSettlementPlan(ctx, models.GroupScope(f.group.ID))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("Expected 3 transfers, got %d", len(plan))
	}
	for _, tr := range plan {
		if tr.To != f.id("A") || tr.Amount != 50 {
			t.Errorf("Expected 50 paid to A, got %+v", tr)
		}
	}

	mine, err := f.svc.GetSettlementPlanFor(ctx, models.GroupScope(f.group.ID), f.id("B"))
	if err != nil {
		t.Fatalf("GetSettlementPlanFor failed: %v", err)
	}
	if len(mine) != 1 || mine[0].From != f.id("B") {
		t.Errorf("Expected only B's transfer, got %+v", mine)
	}
}

func TestRecordExpense_RoundingResidual(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)

	// 100 / 3 = 33.33 each, the extra cent goes to B as the first participant.
	debts := f.record(t, "A", 100, "B", "C", "A")
	owed := make(map[string]float64)
	for _, d := range debts {
		owed[d.DebtorID] = d.Amount
	}
	if !floatEquals(owed[f.id("B")], 33.34) {
		t.Errorf("Expected B to owe 33.34, got %.2f", owed[f.id("B")])
	}
	if !floatEquals(owed[f.id("C")], 33.33) {
		t.Errorf("Expected C to owe 33.33, got %.2f", owed[f.id("C")])
	}
}

func TestRecordExpense_SplitAll(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)

	debts, err := f.svc.RecordExpense(context.Background(), RecordExpenseRequest{
		GroupID:  f.group.ID,
		Amount:   40,
		PayerID:  f.id("B"),
		SplitAll: true,
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if len(debts) != 3 {
		t.Fatalf("Expected 3 debts, got %d", len(debts))
	}

	expenses, err := f.svc.ListExpenses(context.Background(), models.ExpenseFilter{GroupID: f.group.ID})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("Expected 1 expense, got %d", len(expenses))
	}
	e := expenses[0]
	if len(e.Participants) != 4 || e.Category != models.DefaultExpenseCategory || e.Currency != "USD" {
		t.Errorf("Unexpected stored expense: %+v", e)
	}
	if e.CreatedAt != testNow.UnixMilli() {
		t.Errorf("Expected CreatedAt from clock, got %d", e.CreatedAt)
	}
}

func TestRecordExpense_Errors(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	outsider, err := f.svc.CreateUser(context.Background(), CreateUserRequest{Name: "Zed"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	tests := []struct {
		name    string
		req     RecordExpenseRequest
		wantErr error
	}{
		{
			name:    "missing group",
			req:     RecordExpenseRequest{Amount: 10, PayerID: f.id("A"), Participants: []string{f.id("B")}},
			wantErr: models.ErrInvalidInput,
		},
		{
			name:    "unknown group",
			req:     RecordExpenseRequest{GroupID: "nowhere", Amount: 10, PayerID: f.id("A"), Participants: []string{f.id("B")}},
			wantErr: models.ErrNotFound,
		},
		{
			name:    "zero amount",
			req:     RecordExpenseRequest{GroupID: f.group.ID, Amount: 0, PayerID: f.id("A"), Participants: []string{f.id("B")}},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			req:     RecordExpenseRequest{GroupID: f.group.ID, Amount: -5, PayerID: f.id("A"), Participants: []string{f.id("B")}},
			wantErr: models.ErrInvalidAmount,
		},
		{
			name:    "no participants",
			req:     RecordExpenseRequest{GroupID: f.group.ID, Amount: 10, PayerID: f.id("A")},
			wantErr: models.ErrInvalidSplit,
		},
		{
			name:    "payer outside group",
			req:     RecordExpenseRequest{GroupID: f.group.ID, Amount: 10, PayerID: outsider.ID, Participants: []string{f.id("B")}},
			wantErr: models.ErrInvalidSplit,
		},
		{
			name:    "participant outside group",
			req:     RecordExpenseRequest{GroupID: f.group.ID, Amount: 10, PayerID: f.id("A"), Participants: []string{outsider.ID}},
			wantErr: models.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordExpense(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Nothing was recorded by the failed calls.
	expenses, err := f.svc.ListExpenses(context.Background(), models.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected no expenses, got %d", len(expenses))
	}
}

func TestRecordExpense_MergeStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy ledger.DebtMergeStrategy
		want     float64
	}{
		{"replace", ledger.MergeReplace, -20},
		{"additive", ledger.MergeAdditive, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupService(t, tt.strategy)
			f.record(t, "A", 60, "A", "B")
			f.record(t, "A", 40, "A", "B")

			bal, err := f.svc.GetNetBalance(context.Background(), f.id("B"), models.GroupScope(f.group.ID))
			if err != nil {
				t.Fatalf("GetNetBalance failed: %v", err)
			}
			if bal != tt.want {
				t.Errorf("Expected B balance %.2f, got %.2f", tt.want, bal)
			}
		})
	}
}

func TestSettle(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()
	f.record(t, "A", 90, "A", "B", "C")

	changed, err := f.svc.SettleDebt(ctx, SettleDebtRequest{GroupID: f.group.ID, DebtorID: f.id("B"), CreditorID: f.id("A")})
	if err != nil {
		t.Fatalf("SettleDebt failed: %v", err)
	}
	if !changed {
		t.Error("Expected SettleDebt to change the debt")
	}

	_, err = f.svc.SettleDebt(ctx, SettleDebtRequest{GroupID: f.group.ID, DebtorID: f.id("B"), CreditorID: f.id("B")})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for self settlement, got %v", err)
	}

	n, err := f.svc.SettleGroup(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("SettleGroup failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 remaining debt settled, got %d", n)
	}
	n, err = f.svc.SettleGroup(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("SettleGroup failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected idempotent settle, got %d", n)
	}

	bal, err := f.svc.GetNetBalance(ctx, f.id("A"), models.AllGroups)
	if err != nil {
		t.Fatalf("GetNetBalance failed: %v", err)
	}
	if bal != 0 {
		t.Errorf("Expected zero balance after settling, got %.2f", bal)
	}
	plan, err := f.svc.GetSettlementPlan(ctx, models.AllGroups)
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("Expected empty plan, got %+v", plan)
	}
}

// racingCache runs beforeSet once, just before the first plan write lands,
// to model a mutation that interleaves with caching a plan.
type racingCache struct {
	cache.Cache
	beforeSet func()
}

func (c *racingCache) SetPlan(ctx context.Context, scope models.Scope, plan []models.Transfer) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	return c.Cache.SetPlan(ctx, scope, plan)
}

func TestSettlementPlan_MutationDuringCacheWrite(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()
	f.record(t, "A", 200, "A", "B", "C", "D")

	rc := &racingCache{Cache: f.cache}
	f.svc.cache = rc
	rc.beforeSet = func() {
		if _, err := f.svc.SettleGroup(ctx, f.group.ID); err != nil {
			t.Errorf("SettleGroup failed: %v", err)
		}
	}

	plan, err := f.svc.GetSettlementPlan(ctx, models.GroupScope(f.group.ID))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("Expected the pre-settle plan of 3 transfers, got %+v", plan)
	}
	if _, ok, _ := f.cache.GetPlan(ctx, models.GroupScope(f.group.ID)); ok {
		t.Fatal("Expected the plan computed before SettleGroup to be dropped")
	}

	plan, err = f.svc.GetSettlementPlan(ctx, models.GroupScope(f.group.ID))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("Expected no transfers after SettleGroup, got %+v", plan)
	}
}

func TestSettlementPlan_CacheInvalidation(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()
	f.record(t, "A", 20, "A", "B")

	plan, err := f.svc.GetSettlementPlan(ctx, models.AllGroups)
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(plan))
	}
	if _, ok, _ := f.cache.GetPlan(ctx, models.AllGroups); !ok {
		t.Fatal("Expected plan to be cached")
	}

	f.record(t, "C", 30, "C", "D")
	if _, ok, _ := f.cache.GetPlan(ctx, models.AllGroups); ok {
		t.Fatal("Expected cached plan to be dropped after RecordExpense")
	}

	plan, err = f.svc.GetSettlementPlan(ctx, models.AllGroups)
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if len(plan) != 2 {
		t.Errorf("Expected 2 transfers after second expense, got %+v", plan)
	}

	if _, err := f.svc.GetSettlementPlan(ctx, models.GroupScope("nowhere")); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown group, got %v", err)
	}
}

func TestRankingsAndSummaries(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()
	f.record(t, "B", 90, "A", "B", "C")

	rankings, err := f.svc.GetRankings(ctx, calculator.RankingOptions{})
	if err != nil {
		t.Fatalf("GetRankings failed: %v", err)
	}
	// A and C owe 30 each; B is a creditor and is left out.
	if len(rankings) != 2 {
		t.Fatalf("Expected 2 rankings, got %+v", rankings)
	}
	for _, r := range rankings {
		if r.NetBalance != -30 {
			t.Errorf("Expected -30, got %+v", r)
		}
	}

	summaries, err := f.svc.GroupSummaries(ctx, "")
	if err != nil {
		t.Fatalf("GroupSummaries failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Status != models.StatusOwe || summaries[0].Amount != 30 {
		t.Errorf("Unexpected group summaries: %+v", summaries)
	}

	debtSummaries, err := f.svc.DebtSummaries(ctx, f.id("B"))
	if err != nil {
		t.Fatalf("DebtSummaries failed: %v", err)
	}
	if len(debtSummaries) != 1 || debtSummaries[0].TotalOwedTo != 60 || debtSummaries[0].NetBalance != 60 {
		t.Errorf("Unexpected debt summaries: %+v", debtSummaries)
	}

	balances, err := f.svc.BalanceSummaries(ctx, f.id("B"))
	if err != nil {
		t.Fatalf("BalanceSummaries failed: %v", err)
	}
	if len(balances) != 1 || balances[0].TotalBalance != 60 || balances[0].MostSignificantGroupID != f.group.ID {
		t.Errorf("Unexpected balance summaries: %+v", balances)
	}
}

func TestSpendingReports(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()

	add := func(amount float64, category string, at time.Time) {
		t.Helper()
		_, err := f.svc.RecordExpense(ctx, RecordExpenseRequest{
			GroupID:   f.group.ID,
			Amount:    amount,
			PayerID:   f.id("A"),
			SplitAll:  true,
			Category:  category,
			CreatedAt: at.UnixMilli(),
		})
		if err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
	}
	add(40, "Food", testNow.Add(-time.Hour))
	add(20, "Travel", testNow.AddDate(0, 0, -1))
	add(100, "Travel", testNow.AddDate(0, 0, -7))

	weekly, err := f.svc.WeeklySpending(ctx, "")
	if err != nil {
		t.Fatalf("WeeklySpending failed: %v", err)
	}
	if len(weekly) != 1 || weekly[0].ThisWeek != 60 || weekly[0].LastWeek != 100 {
		t.Errorf("Unexpected weekly spending: %+v", weekly)
	}

	facts, err := f.svc.SpendingFacts(ctx, f.id("A"), testNow.AddDate(0, 0, -30), testNow.Add(time.Second))
	if err != nil {
		t.Fatalf("SpendingFacts failed: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("Expected 1 currency, got %+v", facts)
	}
	if facts[0].ExpenseCount != 3 || facts[0].TotalSpent != 160 || facts[0].TopCategory != "Travel" {
		t.Errorf("Unexpected spending facts: %+v", facts[0])
	}
	if !floatEquals(facts[0].AverageExpense, 53.33) {
		t.Errorf("Expected average 53.33, got %.2f", facts[0].AverageExpense)
	}
}

func TestDeleteGroup(t *testing.T) {
	f := setupService(t, ledger.MergeReplace)
	ctx := context.Background()
	f.record(t, "A", 20, "A", "B")

	if err := f.svc.DeleteGroup(ctx, f.group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := f.svc.GetGroup(ctx, f.group.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	bal, err := f.svc.GetNetBalance(ctx, f.id("A"), models.AllGroups)
	if err != nil {
		t.Fatalf("GetNetBalance failed: %v", err)
	}
	if bal != 0 {
		t.Errorf("Expected debts to go with the group, got balance %.2f", bal)
	}
}
