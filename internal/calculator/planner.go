package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/youome/internal/models"
)

var epsilon = decimal.NewFromFloat(models.Epsilon)

// position is a participant's remaining balance during netting. amount is
// always positive: what a creditor is still owed or a debtor still owes.
type position struct {
	user   string
	amount decimal.Decimal
}

// PlanSettlement reduces a set of debts to suggested transfers that zero
// every net balance.
//
// Algorithm (per currency, currencies in lexical order):
//   - net balance per user over the unsettled debts
//   - creditors (> Epsilon) largest first, debtors (< -Epsilon) largest debt first
//   - match the current creditor with the current debtor for the smaller of the
//     two remaining amounts and advance whichever side is exhausted
//
// The result moves exactly the sum of positive balances and has at most
// creditors+debtors-1 transfers per currency.
func PlanSettlement(debts []models.Debt) []models.Transfer {
	byCurrency := balancesByCurrency(debts)
	plan := make([]models.Transfer, 0)
	for _, currency := range sortedCurrencies(byCurrency) {
		plan = append(plan, greedyNetting(byCurrency[currency], currency)...)
	}
	return plan
}

// PlanCurrency plans a single-currency debt set. Debts in more than one
// currency return ErrCurrencyMismatch instead of being netted together.
func PlanCurrency(debts []models.Debt) ([]models.Transfer, error) {
	currency, err := singleCurrency(debts)
	if err != nil {
		return nil, err
	}
	return greedyNetting(balancesByCurrency(debts)[currency], currency), nil
}

func greedyNetting(balances map[string]decimal.Decimal, currency string) []models.Transfer {
	var creditors, debtors []position
	for user, bal := range balances {
		switch {
		case bal.GreaterThan(epsilon):
			creditors = append(creditors, position{user: user, amount: bal})
		case bal.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{user: user, amount: bal.Neg()})
		}
	}
	sortPositions(creditors)
	sortPositions(debtors)

	transfers := make([]models.Transfer, 0)
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.amount, debtor.amount)
		if amount.GreaterThan(epsilon) {
			transfers = append(transfers, models.Transfer{
				From:     debtor.user,
				To:       creditor.user,
				Amount:   amount.InexactFloat64(),
				Currency: currency,
			})
		}

		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Sub(amount)

		if !creditor.amount.GreaterThan(epsilon) {
			i++
		}
		if !debtor.amount.GreaterThan(epsilon) {
			j++
		}
	}
	return transfers
}

// sortPositions orders by amount descending, then user id for determinism.
func sortPositions(ps []position) {
	sort.Slice(ps, func(a, b int) bool {
		if c := ps[a].amount.Cmp(ps[b].amount); c != 0 {
			return c > 0
		}
		return ps[a].user < ps[b].user
	})
}

// FilterTransfers keeps the transfers userID pays or receives. It is a
// viewpoint over a finished plan and does not change how the plan is built.
func FilterTransfers(plan []models.Transfer, userID string) []models.Transfer {
	filtered := make([]models.Transfer, 0)
	for _, t := range plan {
		if t.From == userID || t.To == userID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
