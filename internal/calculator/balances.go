package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/youome/internal/models"
)

// currencyOf returns the debt's currency label, defaulting empty labels.
func currencyOf(d models.Debt) string {
	if d.Currency == "" {
		return models.DefaultCurrency
	}
	return d.Currency
}

// balancesByCurrency sums unsettled debts into signed per-user balances,
// one map per currency. Creditors gain the amount, debtors lose it.
func balancesByCurrency(debts []models.Debt) map[string]map[string]decimal.Decimal {
	result := make(map[string]map[string]decimal.Decimal)
	for _, d := range debts {
		if d.Settled || d.DebtorID == d.CreditorID {
			continue
		}
		currency := currencyOf(d)
		balances, ok := result[currency]
		if !ok {
			balances = make(map[string]decimal.Decimal)
			result[currency] = balances
		}
		amount := decimal.NewFromFloat(d.Amount)
		balances[d.CreditorID] = balances[d.CreditorID].Add(amount)
		balances[d.DebtorID] = balances[d.DebtorID].Sub(amount)
	}
	return result
}

// singleCurrency returns the one currency used by the unsettled debts, or
// ErrCurrencyMismatch if there is more than one.
func singleCurrency(debts []models.Debt) (string, error) {
	currency := ""
	for _, d := range debts {
		if d.Settled {
			continue
		}
		c := currencyOf(d)
		if currency == "" {
			currency = c
			continue
		}
		if c != currency {
			return "", fmt.Errorf("%w: %s and %s cannot be netted together", models.ErrCurrencyMismatch, currency, c)
		}
	}
	return currency, nil
}

// NetBalances computes every participant's net balance (credit positive,
// debt negative) over the unsettled debts. All debts must share one
// currency; mixing currencies returns ErrCurrencyMismatch.
func NetBalances(debts []models.Debt) (map[string]float64, error) {
	currency, err := singleCurrency(debts)
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64)
	for user, bal := range balancesByCurrency(debts)[currency] {
		result[user] = bal.InexactFloat64()
	}
	return result, nil
}

// UserBalances returns userID's net balance per currency over the unsettled
// debts. Currencies the user has no debts in are absent.
func UserBalances(debts []models.Debt, userID string) map[string]float64 {
	result := make(map[string]float64)
	for currency, balances := range balancesByCurrency(debts) {
		if bal, ok := balances[userID]; ok {
			result[currency] = bal.InexactFloat64()
		}
	}
	return result
}

// sortedCurrencies returns the map's currency keys in lexical order.
func sortedCurrencies[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
