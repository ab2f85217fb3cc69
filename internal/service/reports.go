package service

import (
	"context"
	"time"

	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/models"
)

// GroupSummaries returns every group's standing from userID's point of
// view. An empty userID means the current user.
func (s *Service) GroupSummaries(ctx context.Context, userID string) ([]models.GroupSummary, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	debts, err := s.ledger.Debts(ctx, models.DebtFilter{UserID: userID, Unsettled: true})
	if err != nil {
		return nil, err
	}
	return calculator.GroupSummaries(groups, debts, userID), nil
}

// BalanceSummaries returns userID's total balance per currency with the
// group that contributes most to it.
func (s *Service) BalanceSummaries(ctx context.Context, userID string) ([]models.BalanceSummary, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	debts, err := s.ledger.Debts(ctx, models.DebtFilter{UserID: userID, Unsettled: true})
	if err != nil {
		return nil, err
	}
	return calculator.BalanceSummaries(groups, debts, userID), nil
}

// DebtSummaries returns what userID owes and is owed, per currency.
func (s *Service) DebtSummaries(ctx context.Context, userID string) ([]models.DebtSummary, error) {
	userID, err := s.viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	debts, err := s.ledger.Debts(ctx, models.DebtFilter{UserID: userID, Unsettled: true})
	if err != nil {
		return nil, err
	}
	return calculator.DebtSummaries(debts, userID), nil
}

// SpendingFacts aggregates what payerID paid for in [from, to).
func (s *Service) SpendingFacts(ctx context.Context, payerID string, from, to time.Time) ([]models.SpendingFacts, error) {
	payerID, err := s.viewer(ctx, payerID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, models.ExpenseFilter{
		PayerID: payerID,
		From:    from.UnixMilli(),
		To:      to.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	return calculator.SpendingFacts(expenses, payerID, from, to), nil
}

// WeeklySpending compares what payerID paid this week with last week.
func (s *Service) WeeklySpending(ctx context.Context, payerID string) ([]models.WeeklySpending, error) {
	payerID, err := s.viewer(ctx, payerID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	expenses, err := s.store.ListExpenses(ctx, models.ExpenseFilter{
		PayerID: payerID,
		From:    calculator.WeekStart(now).AddDate(0, 0, -7).UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	return calculator.WeeklySpending(expenses, payerID, now), nil
}
