// Package storetest holds behaviour tests shared by every storage.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mmynk/youome/internal/models"
	"github.com/mmynk/youome/internal/storage"
)

// Run exercises a fresh store returned by newStore. Each subtest gets its
// own store.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	seed := func(t *testing.T, s storage.Store, names ...string) []string {
		t.Helper()
		ids := make([]string, 0, len(names))
		for _, name := range names {
			u := &models.User{ID: name, Name: name}
			if err := s.CreateUser(ctx, u); err != nil {
				t.Fatalf("CreateUser(%s) failed: %v", name, err)
			}
			ids = append(ids, u.ID)
		}
		return ids
	}

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "Alice"}
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if u.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if u.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := s.GetUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" {
			t.Errorf("Expected name Alice, got %s", got.Name)
		}
	})

	t.Run("duplicate user is a conflict", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A")
		err := s.CreateUser(ctx, &models.User{ID: "A", Name: "again"})
		if !errors.Is(err, models.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("missing records are not found", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetUser(ctx, "nobody"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetUser: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetGroup(ctx, "nowhere"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetGroup: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetExpense(ctx, "nothing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetExpense: expected ErrNotFound, got %v", err)
		}
		if _, err := s.GetCurrentUser(ctx); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetCurrentUser: expected ErrNotFound, got %v", err)
		}
		if err := s.DeleteGroup(ctx, "nowhere"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("DeleteGroup: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("current user is unique", func(t *testing.T) {
		s := newStore(t)
		if err := s.CreateUser(ctx, &models.User{ID: "A", Name: "A", IsCurrentUser: true}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if err := s.CreateUser(ctx, &models.User{ID: "B", Name: "B", IsCurrentUser: true}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		cur, err := s.GetCurrentUser(ctx)
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if cur.ID != "B" {
			t.Errorf("Expected current user B, got %s", cur.ID)
		}

		if err := s.SetCurrentUser(ctx, "A"); err != nil {
			t.Fatalf("SetCurrentUser failed: %v", err)
		}
		users, err := s.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		current := 0
		for _, u := range users {
			if u.IsCurrentUser {
				current++
				if u.ID != "A" {
					t.Errorf("Expected A to be current, got %s", u.ID)
				}
			}
		}
		if current != 1 {
			t.Errorf("Expected exactly 1 current user, got %d", current)
		}
	})

	t.Run("groups keep members", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B", "C")

		g := &models.Group{Name: "Trip", Currency: "EUR", Category: "Travel", Members: []string{"C", "A"}}
		if err := s.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if g.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}
		if err := s.AddMembers(ctx, g.ID, []string{"A", "B"}); err != nil {
			t.Fatalf("AddMembers failed: %v", err)
		}

		got, err := s.GetGroup(ctx, g.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Trip" || got.Currency != "EUR" || got.Category != "Travel" {
			t.Errorf("Unexpected group: %+v", got)
		}
		// Join order, not id order: the first member absorbs split residuals.
		if want := []string{"C", "A", "B"}; !slices.Equal(got.Members, want) {
			t.Errorf("Expected members %v, got %v", want, got.Members)
		}

		if err := s.AddMembers(ctx, g.ID, []string{"ghost"}); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for unknown member, got %v", err)
		}

		groups, err := s.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("Expected 1 group, got %d", len(groups))
		}
		if want := []string{"C", "A", "B"}; !slices.Equal(groups[0].Members, want) {
			t.Errorf("ListGroups members = %v, want %v", groups[0].Members, want)
		}
	})

	t.Run("CommitDebts stores expense and upserts debts", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B")
		g := &models.Group{ID: "g1", Name: "Flat", Currency: "USD", Members: []string{"A", "B"}}
		if err := s.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		e := &models.Expense{
			GroupID:      "g1",
			Description:  "Rent",
			Amount:       100,
			Currency:     "USD",
			PayerID:      "A",
			Participants: []string{"A", "B"},
			Category:     "Housing",
			CreatedAt:    1000,
		}
		d := models.Debt{GroupID: "g1", DebtorID: "B", CreditorID: "A", Amount: 50, Currency: "USD", CreatedAt: 1000, UpdatedAt: 1000}
		if err := s.CommitDebts(ctx, e, []models.Debt{d}); err != nil {
			t.Fatalf("CommitDebts failed: %v", err)
		}
		if e.ID == "" {
			t.Fatal("Expected expense ID to be generated")
		}

		gotExpense, err := s.GetExpense(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if gotExpense.Amount != 100 || gotExpense.PayerID != "A" || len(gotExpense.Participants) != 2 {
			t.Errorf("Unexpected expense: %+v", gotExpense)
		}

		// Upsert replaces the record for the same key.
		d.Amount = 75
		d.UpdatedAt = 2000
		if err := s.CommitDebts(ctx, nil, []models.Debt{d}); err != nil {
			t.Fatalf("CommitDebts failed: %v", err)
		}
		debts, err := s.ListDebts(ctx, models.DebtFilter{GroupID: "g1"})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(debts) != 1 {
			t.Fatalf("Expected 1 debt, got %d", len(debts))
		}
		if debts[0].Amount != 75 || debts[0].UpdatedAt != 2000 || debts[0].CreatedAt != 1000 {
			t.Errorf("Unexpected debt after upsert: %+v", debts[0])
		}

		expenses, err := s.ListExpenses(ctx, models.ExpenseFilter{PayerID: "A"})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 1 {
			t.Errorf("Expected 1 expense, got %d", len(expenses))
		}
	})

	t.Run("CommitDebts writes nothing on failure", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B")
		if err := s.CreateGroup(ctx, &models.Group{ID: "g1", Name: "Flat", Members: []string{"A", "B"}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		e := &models.Expense{GroupID: "g1", Amount: 10, PayerID: "A", Participants: []string{"B"}, CreatedAt: 1}
		debts := []models.Debt{
			{GroupID: "g1", DebtorID: "B", CreditorID: "A", Amount: 10, Currency: "USD", CreatedAt: 1, UpdatedAt: 1},
			{GroupID: "missing", DebtorID: "B", CreditorID: "A", Amount: 10, Currency: "USD", CreatedAt: 1, UpdatedAt: 1},
		}
		if err := s.CommitDebts(ctx, e, debts); err == nil {
			t.Fatal("Expected CommitDebts to fail for unknown group")
		}

		all, err := s.ListDebts(ctx, models.DebtFilter{})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("Expected no debts after failed commit, got %d", len(all))
		}
		expenses, err := s.ListExpenses(ctx, models.ExpenseFilter{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected no expenses after failed commit, got %d", len(expenses))
		}
	})

	t.Run("MarkSettled is idempotent", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B", "C")
		if err := s.CreateGroup(ctx, &models.Group{ID: "g1", Name: "Flat", Members: []string{"A", "B", "C"}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		debts := []models.Debt{
			{GroupID: "g1", DebtorID: "B", CreditorID: "A", Amount: 10, Currency: "USD", CreatedAt: 1, UpdatedAt: 1},
			{GroupID: "g1", DebtorID: "C", CreditorID: "A", Amount: 20, Currency: "USD", CreatedAt: 1, UpdatedAt: 1},
		}
		if err := s.CommitDebts(ctx, nil, debts); err != nil {
			t.Fatalf("CommitDebts failed: %v", err)
		}

		keys := []models.DebtKey{debts[0].Key(), {GroupID: "g1", DebtorID: "X", CreditorID: "Y"}}
		n, err := s.MarkSettled(ctx, keys, 500)
		if err != nil {
			t.Fatalf("MarkSettled failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 settled, got %d", n)
		}
		n, err = s.MarkSettled(ctx, keys, 600)
		if err != nil {
			t.Fatalf("MarkSettled failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 settled on second call, got %d", n)
		}

		open, err := s.ListDebts(ctx, models.DebtFilter{GroupID: "g1", Unsettled: true})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(open) != 1 || open[0].DebtorID != "C" {
			t.Errorf("Expected only C's debt to stay open, got %+v", open)
		}

		byUser, err := s.ListDebts(ctx, models.DebtFilter{UserID: "B"})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(byUser) != 1 || !byUser[0].Settled || byUser[0].SettledAt != 500 {
			t.Errorf("Expected B's debt settled at 500, got %+v", byUser)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B")
		if err := s.CreateGroup(ctx, &models.Group{ID: "g1", Name: "Flat", Members: []string{"A", "B"}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		e := &models.Expense{GroupID: "g1", Amount: 10, PayerID: "A", Participants: []string{"B"}, CreatedAt: 1}
		d := models.Debt{GroupID: "g1", DebtorID: "B", CreditorID: "A", Amount: 10, Currency: "USD", CreatedAt: 1, UpdatedAt: 1}
		if err := s.CommitDebts(ctx, e, []models.Debt{d}); err != nil {
			t.Fatalf("CommitDebts failed: %v", err)
		}

		if err := s.DeleteGroup(ctx, "g1"); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := s.GetExpense(ctx, e.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected expense to be deleted, got %v", err)
		}
		debts, err := s.ListDebts(ctx, models.DebtFilter{})
		if err != nil {
			t.Fatalf("ListDebts failed: %v", err)
		}
		if len(debts) != 0 {
			t.Errorf("Expected debts to be deleted, got %d", len(debts))
		}
		// Users survive the group.
		if _, err := s.GetUser(ctx, "A"); err != nil {
			t.Errorf("Expected user A to survive, got %v", err)
		}
	})

	t.Run("ListExpenses filters by window", func(t *testing.T) {
		s := newStore(t)
		seed(t, s, "A", "B")
		if err := s.CreateGroup(ctx, &models.Group{ID: "g1", Name: "Flat", Members: []string{"A", "B"}}); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		for _, at := range []int64{100, 200, 300} {
			e := &models.Expense{GroupID: "g1", Amount: 1, Currency: "USD", PayerID: "A", Participants: []string{"B"}, CreatedAt: at}
			if err := s.CommitDebts(ctx, e, nil); err != nil {
				t.Fatalf("CommitDebts failed: %v", err)
			}
		}

		got, err := s.ListExpenses(ctx, models.ExpenseFilter{From: 200, To: 300})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != 1 || got[0].CreatedAt != 200 {
			t.Errorf("Expected only the expense at 200, got %+v", got)
		}

		all, err := s.ListExpenses(ctx, models.ExpenseFilter{GroupID: "g1"})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(all) != 3 || all[0].CreatedAt != 300 {
			t.Errorf("Expected 3 expenses newest first, got %+v", all)
		}
	})
}
