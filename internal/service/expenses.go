package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/youome/internal/calculator"
	"github.com/mmynk/youome/internal/models"
)

// RecordExpense splits an expense equally among its participants and
// merges the resulting debts into the ledger together with the expense.
// It returns the group's outstanding debts afterwards.
func (s *Service) RecordExpense(ctx context.Context, req RecordExpenseRequest) ([]models.Debt, error) {
	slog.Info("RecordExpense request received",
		"group_id", req.GroupID,
		"payer_id", req.PayerID,
		"amount", req.Amount,
		"participants_count", len(req.Participants),
		"split_all", req.SplitAll,
	)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		slog.Error("RecordExpense failed", "group_id", req.GroupID, "error", err)
		return nil, err
	}

	participants := req.Participants
	if req.SplitAll {
		participants = group.Members
	}

	expense := req.expense(group, s.now().UnixMilli())
	deltas, err := calculator.SplitExpense(*expense, participants)
	if err != nil {
		slog.Error("RecordExpense failed", "group_id", req.GroupID, "error", err)
		return nil, err
	}

	if !group.HasMember(req.PayerID) {
		return nil, fmt.Errorf("%w: payer %s is not a member of group %s", models.ErrInvalidSplit, req.PayerID, group.ID)
	}
	for _, p := range participants {
		if !group.HasMember(p) {
			return nil, fmt.Errorf("%w: participant %s is not a member of group %s", models.ErrInvalidSplit, p, group.ID)
		}
	}
	expense.Participants = participants

	debts, err := s.ledger.Record(ctx, expense, deltas)
	if err != nil {
		slog.Error("RecordExpense failed", "group_id", req.GroupID, "error", err)
		return nil, err
	}
	s.mutated(ctx, group.ID)
	s.metrics.ExpenseRecorded(expense.Currency)

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"deltas", len(deltas),
		"outstanding_debts", len(debts),
	)
	return debts, nil
}

// ListExpenses returns the expenses matching filter, newest first.
func (s *Service) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]*models.Expense, error) {
	if filter.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, filter.GroupID); err != nil {
			return nil, err
		}
	}
	return s.store.ListExpenses(ctx, filter)
}
