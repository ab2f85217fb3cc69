package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/youome/internal/models"
)

// centPlaces is the number of decimal places of a currency's minor unit.
const centPlaces = 2

// SplitPolicy divides an amount into one share per participant. The shares
// must add up to amount exactly.
type SplitPolicy interface {
	Shares(amount decimal.Decimal, participants []string) []decimal.Decimal
}

// EqualSplit gives every participant amount/n truncated to cents. The cents
// left over go to the first participant so the shares always add up.
type EqualSplit struct{}

// Shares implements SplitPolicy.
func (EqualSplit) Shares(amount decimal.Decimal, participants []string) []decimal.Decimal {
	n := decimal.NewFromInt(int64(len(participants)))
	share := amount.Div(n).Truncate(centPlaces)
	residual := amount.Sub(share.Mul(n))

	shares := make([]decimal.Decimal, len(participants))
	for i := range shares {
		shares[i] = share
	}
	shares[0] = shares[0].Add(residual)
	return shares
}

// SplitExpense converts an expense into pairwise debt deltas using an equal
// split. Every participant other than the payer owes the payer their share;
// the payer's own share produces no delta.
func SplitExpense(expense models.Expense, participants []string) ([]models.DebtDelta, error) {
	return SplitExpenseWith(EqualSplit{}, expense, participants)
}

// SplitExpenseWith is SplitExpense with an explicit split policy.
func SplitExpenseWith(policy SplitPolicy, expense models.Expense, participants []string) ([]models.DebtDelta, error) {
	if math.IsNaN(expense.Amount) || math.IsInf(expense.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be a finite number", models.ErrInvalidAmount)
	}
	amount := decimal.NewFromFloat(expense.Amount).Round(centPlaces)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", models.ErrInvalidAmount, expense.Amount)
	}

	participants = uniqueParticipants(participants)
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", models.ErrInvalidSplit)
	}

	currency := expense.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	shares := policy.Shares(amount, participants)

	deltas := make([]models.DebtDelta, 0, len(participants))
	for i, participant := range participants {
		// The payer never owes themselves
		if participant == expense.PayerID {
			continue
		}
		if !shares[i].IsPositive() {
			continue
		}
		deltas = append(deltas, models.DebtDelta{
			GroupID:    expense.GroupID,
			DebtorID:   participant,
			CreditorID: expense.PayerID,
			Amount:     shares[i].InexactFloat64(),
			Currency:   currency,
		})
	}
	return deltas, nil
}

// uniqueParticipants drops empty and repeated ids, keeping first occurrences
// in order.
func uniqueParticipants(participants []string) []string {
	seen := make(map[string]bool, len(participants))
	unique := make([]string, 0, len(participants))
	for _, p := range participants {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	return unique
}
