package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/youome/internal/models"
)

func TestNetBalances_ThreeMembers(t *testing.T) {
	expense := models.Expense{GroupID: "g1", Amount: 200, PayerID: "A"}
	deltas, err := SplitExpense(expense, []string{"A", "B", "C", "D"})
	if err != nil {
		t.Fatalf("SplitExpense failed: %v", err)
	}
	var debts []models.Debt
	for _, d := range deltas {
		debts = append(debts, models.Debt{GroupID: d.GroupID, DebtorID: d.DebtorID, CreditorID: d.CreditorID, Amount: d.Amount, Currency: d.Currency})
	}

	balances, err := NetBalances(debts)
	if err != nil {
		t.Fatalf("NetBalances failed: %v", err)
	}
	if balances["A"] != 150 {
		t.Errorf("A balance = %v, want 150", balances["A"])
	}
	for _, u := range []string{"B", "C", "D"} {
		if balances[u] != -50 {
			t.Errorf("%s balance = %v, want -50", u, balances[u])
		}
	}
}

func TestUserBalances_PerCurrency(t *testing.T) {
	eur := debt("A", "B", 12.5)
	eur.Currency = "EUR"
	debts := []models.Debt{debt("B", "A", 20), eur}

	got := UserBalances(debts, "A")
	if got["USD"] != 20 || got["EUR"] != -12.5 {
		t.Errorf("UserBalances(A) = %v", got)
	}
	if len(UserBalances(debts, "Z")) != 0 {
		t.Errorf("expected no balances for unknown user")
	}
}

func TestRankings(t *testing.T) {
	users := []*models.User{
		{ID: "A", Name: "Alice"},
		{ID: "B", Name: "Bob"},
		{ID: "C", Name: "Carol"},
		{ID: "me", Name: "Me", IsCurrentUser: true},
	}
	debts := []models.Debt{
		debt("B", "A", 30),
		debt("C", "A", 50),
		debt("ghost", "A", 5),
	}

	t.Run("net debtors only", func(t *testing.T) {
		got := Rankings(debts, users, RankingOptions{})
		// Carol -50, Bob -30, ghost -5, Me 0
		if len(got) != 4 {
			t.Fatalf("expected 4 rows, got %v", got)
		}
		wantIDs := []string{"C", "B", "ghost", "me"}
		for i, id := range wantIDs {
			if got[i].UserID != id {
				t.Errorf("row %d = %s, want %s", i, got[i].UserID, id)
			}
		}
		if got[2].UserName != models.UnknownUserName {
			t.Errorf("unknown user name = %q", got[2].UserName)
		}
		if got[3].NetBalance != 0 || got[3].Currency != models.DefaultCurrency {
			t.Errorf("current user row = %+v", got[3])
		}
	})

	t.Run("full signed list", func(t *testing.T) {
		got := Rankings(debts, users, RankingOptions{IncludeCreditors: true})
		last := got[len(got)-1]
		if last.UserID != "A" || last.NetBalance != 85 {
			t.Errorf("last row = %+v, want Alice +85", last)
		}
	})
}

func TestGroupSummaries(t *testing.T) {
	groups := []*models.Group{
		{ID: "g1", Name: "Flat", Currency: "USD", Members: []string{"A", "B"}},
		{ID: "g2", Name: "Trip", Currency: "USD", Members: []string{"A", "C", "D"}},
		{ID: "g3", Name: "Quiet", Currency: "USD", Members: []string{"A"}},
	}
	d2 := debt("A", "C", 12)
	d2.GroupID = "g2"
	settled := debt("A", "B", 99)
	settled.Settled = true

	got := GroupSummaries(groups, []models.Debt{debt("B", "A", 40), d2, settled}, "A")
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}
	if got[0].Status != models.StatusOwed || got[0].Amount != 40 || got[0].MemberCount != 2 {
		t.Errorf("g1 summary = %+v", got[0])
	}
	if got[1].Status != models.StatusOwe || got[1].Amount != 12 || got[1].NetBalance != -12 {
		t.Errorf("g2 summary = %+v", got[1])
	}
	if got[2].Status != models.StatusSettled || got[2].Amount != 0 {
		t.Errorf("g3 summary = %+v", got[2])
	}
}

func TestGroupSummaries_ForeignCurrency(t *testing.T) {
	groups := []*models.Group{
		{ID: "g1", Name: "Flat", Currency: "USD", Members: []string{"A", "B"}},
		{ID: "g2", Name: "Quiet", Currency: "USD", Members: []string{"A"}},
	}
	eur := debt("B", "A", 25)
	eur.Currency = "EUR"
	gbp := debt("A", "B", 8)
	gbp.Currency = "GBP"

	got := GroupSummaries(groups, []models.Debt{debt("B", "A", 40), eur, gbp}, "A")
	want := []struct {
		group    string
		currency string
		net      float64
		status   models.BalanceStatus
	}{
		{"g1", "USD", 40, models.StatusOwed},
		{"g1", "EUR", 25, models.StatusOwed},
		{"g1", "GBP", -8, models.StatusOwe},
		{"g2", "USD", 0, models.StatusSettled},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d summaries, got %+v", len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.GroupID != w.group || g.Currency != w.currency || g.NetBalance != w.net || g.Status != w.status {
			t.Errorf("summary %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestBalanceSummaries(t *testing.T) {
	groups := []*models.Group{{ID: "g1", Name: "Flat"}, {ID: "g2", Name: "Trip"}}
	d2 := debt("A", "C", 70)
	d2.GroupID = "g2"

	got := BalanceSummaries(groups, []models.Debt{debt("B", "A", 40), d2}, "A")
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %v", got)
	}
	if got[0].TotalBalance != -30 {
		t.Errorf("total = %v, want -30", got[0].TotalBalance)
	}
	if got[0].MostSignificantGroupID != "g2" || got[0].MostSignificantGroupName != "Trip" {
		t.Errorf("most significant = %+v, want Trip", got[0])
	}

	if len(BalanceSummaries(groups, nil, "A")) != 0 {
		t.Errorf("expected no summaries without debts")
	}
}

func TestDebtSummaries(t *testing.T) {
	got := DebtSummaries([]models.Debt{debt("B", "A", 40), debt("A", "C", 15), debt("C", "B", 99)}, "A")
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %v", got)
	}
	want := models.DebtSummary{Currency: "USD", TotalOwed: 15, TotalOwedTo: 40, NetBalance: 25}
	if got[0] != want {
		t.Errorf("DebtSummaries() = %+v, want %+v", got[0], want)
	}
}

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 10, 18, 15, 4, 5, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)},  // Sunday
		{time.Date(2026, 10, 12, 0, 0, 0, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)},   // Monday
		{time.Date(2026, 10, 14, 23, 59, 0, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)}, // Wednesday
	}
	for _, tt := range tests {
		if got := WeekStart(tt.now); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestSpendingAndWeekly(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) // Thursday
	at := func(days int) int64 { return now.AddDate(0, 0, days).UnixMilli() }
	expenses := []*models.Expense{
		{Amount: 30, PayerID: "A", Category: "Food", CreatedAt: at(-1)},
		{Amount: 10, PayerID: "A", Category: "Food", CreatedAt: at(-2)},
		{Amount: 35, PayerID: "A", Category: "Travel", CreatedAt: at(0)},
		{Amount: 99, PayerID: "B", Category: "Food", CreatedAt: at(0)},
		{Amount: 20, PayerID: "A", Category: "Food", CreatedAt: at(-7)}, // last week
		{Amount: 5, PayerID: "A", Category: "Food", CreatedAt: at(-14)}, // two weeks ago
	}

	facts := SpendingFacts(expenses, "A", WeekStart(now), now.Add(time.Millisecond))
	if len(facts) != 1 {
		t.Fatalf("expected 1 currency, got %v", facts)
	}
	f := facts[0]
	if f.TotalSpent != 75 || f.ExpenseCount != 3 || f.AverageExpense != 25 || f.TopCategory != "Food" {
		t.Errorf("SpendingFacts() = %+v", f)
	}

	weekly := WeeklySpending(expenses, "A", now)
	if len(weekly) != 1 {
		t.Fatalf("expected 1 currency, got %v", weekly)
	}
	if math.Abs(weekly[0].ThisWeek-75) > 1e-9 || math.Abs(weekly[0].LastWeek-20) > 1e-9 {
		t.Errorf("WeeklySpending() = %+v, want 75 / 20", weekly[0])
	}
}
