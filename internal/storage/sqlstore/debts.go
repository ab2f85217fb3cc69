package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/youome/internal/models"
)

// ListDebts returns the debts matching filter ordered by key.
func (s *Store) ListDebts(ctx context.Context, filter models.DebtFilter) ([]models.Debt, error) {
	var (
		where []string
		args  []any
	)
	if filter.GroupID != "" {
		where = append(where, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.UserID != "" {
		where = append(where, "(debtor_id = ? OR creditor_id = ?)")
		args = append(args, filter.UserID, filter.UserID)
	}
	if filter.Unsettled {
		where = append(where, "settled = ?")
		args = append(args, false)
	}

	query := "SELECT " + debtColumns + " FROM debts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY group_id, debtor_id, creditor_id"

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := make([]models.Debt, 0)
	for rows.Next() {
		var d models.Debt
		err := rows.Scan(&d.GroupID, &d.DebtorID, &d.CreditorID, &d.Amount, &d.Currency,
			&d.Settled, &d.CreatedAt, &d.UpdatedAt, &d.SettledAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// CommitDebts writes the expense (if any) and upserts every debt in one
// transaction.
func (s *Store) CommitDebts(ctx context.Context, expense *models.Expense, debts []models.Debt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if expense != nil {
		if err := s.insertExpense(ctx, tx, expense); err != nil {
			return err
		}
	}

	upsert := s.q(s.dialect.upsertDebt)
	for _, d := range debts {
		_, err := tx.ExecContext(ctx, upsert,
			d.GroupID, d.DebtorID, d.CreditorID, d.Amount, d.Currency,
			d.Settled, d.CreatedAt, d.UpdatedAt, d.SettledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert debt %s->%s: %w", d.DebtorID, d.CreditorID, constraintError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkSettled flags the outstanding debts among keys as settled.
func (s *Store) MarkSettled(ctx context.Context, keys []models.DebtKey, settledAt int64) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	update := s.q(`UPDATE debts SET settled = ?, settled_at = ?, updated_at = ?
		WHERE group_id = ? AND debtor_id = ? AND creditor_id = ? AND settled = ?`)

	changed := 0
	for _, key := range keys {
		res, err := tx.ExecContext(ctx, update,
			true, settledAt, settledAt,
			key.GroupID, key.DebtorID, key.CreditorID, false,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to settle debt %s->%s: %w", key.DebtorID, key.CreditorID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to settle debt: %w", err)
		}
		changed += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return changed, nil
}
