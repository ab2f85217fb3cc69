package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/youome/internal/models"
)

// DebtMergeStrategy decides how a new delta combines with an outstanding
// debt for the same key.
type DebtMergeStrategy int

const (
	// MergeReplace overwrites the outstanding amount with the delta: the
	// last expense recorded for a pair wins. This is the default.
	MergeReplace DebtMergeStrategy = iota
	// MergeAdditive adds the delta to the outstanding amount.
	MergeAdditive
)

func (s DebtMergeStrategy) String() string {
	switch s {
	case MergeReplace:
		return "replace"
	case MergeAdditive:
		return "additive"
	default:
		return fmt.Sprintf("DebtMergeStrategy(%d)", int(s))
	}
}

// ParseMergeStrategy parses "replace" or "additive". An empty string
// selects MergeReplace.
func ParseMergeStrategy(s string) (DebtMergeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return MergeReplace, nil
	case "additive":
		return MergeAdditive, nil
	default:
		return MergeReplace, fmt.Errorf("%w: unknown merge strategy %q", models.ErrInvalidInput, s)
	}
}

// merge folds delta into current. A missing or settled record is replaced
// by a fresh outstanding debt carrying the delta amount.
func (s DebtMergeStrategy) merge(current *models.Debt, delta models.DebtDelta, now int64) (models.Debt, error) {
	if current == nil || current.Settled {
		return models.Debt{
			GroupID:    delta.GroupID,
			DebtorID:   delta.DebtorID,
			CreditorID: delta.CreditorID,
			Amount:     delta.Amount,
			Currency:   delta.Currency,
			CreatedAt:  now,
			UpdatedAt:  now,
		}, nil
	}

	merged := *current
	merged.UpdatedAt = now
	switch s {
	case MergeAdditive:
		if current.Currency != delta.Currency {
			return models.Debt{}, fmt.Errorf("%w: debt %s->%s is in %s, delta in %s",
				models.ErrCurrencyMismatch, delta.DebtorID, delta.CreditorID, current.Currency, delta.Currency)
		}
		sum := decimal.NewFromFloat(current.Amount).Add(decimal.NewFromFloat(delta.Amount))
		merged.Amount = sum.Round(2).InexactFloat64()
	default:
		merged.Amount = delta.Amount
		merged.Currency = delta.Currency
	}
	return merged, nil
}
