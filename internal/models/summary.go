package models

// Ranking is one row of the debt leaderboard.
type Ranking struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	NetBalance float64 `json:"net_balance"` // Positive = owed money, Negative = owes money
	Currency   string  `json:"currency"`
}

// BalanceStatus describes a net balance from a user's point of view.
type BalanceStatus string

const (
	StatusOwed    BalanceStatus = "owed"    // others owe the user
	StatusOwe     BalanceStatus = "owe"     // the user owes others
	StatusSettled BalanceStatus = "settled" // within Epsilon of zero
)

// StatusOf classifies a net balance using the Epsilon-bounded zero test.
func StatusOf(balance float64) BalanceStatus {
	switch {
	case balance > Epsilon:
		return StatusOwed
	case balance < -Epsilon:
		return StatusOwe
	default:
		return StatusSettled
	}
}

// GroupSummary is a group's standing from one user's point of view.
type GroupSummary struct {
	GroupID     string        `json:"group_id"`
	GroupName   string        `json:"group_name"`
	Currency    string        `json:"currency"`
	MemberCount int           `json:"member_count"`
	NetBalance  float64       `json:"net_balance"`
	Amount      float64       `json:"amount"` // absolute value of NetBalance, zero when settled
	Status      BalanceStatus `json:"status"`
}

// BalanceSummary is a user's balance across every group.
type BalanceSummary struct {
	TotalBalance float64 `json:"total_balance"`
	Currency     string  `json:"currency"`
	// MostSignificantGroupID is the group with the largest absolute balance.
	// Empty when the user has no outstanding debts.
	MostSignificantGroupID   string `json:"most_significant_group_id,omitempty"`
	MostSignificantGroupName string `json:"most_significant_group_name,omitempty"`
}

// DebtSummary totals a user's outstanding debts in both directions.
type DebtSummary struct {
	Currency    string  `json:"currency"`
	TotalOwed   float64 `json:"total_owed"`    // what the user owes
	TotalOwedTo float64 `json:"total_owed_to"` // what others owe the user
	NetBalance  float64 `json:"net_balance"`
}

// SpendingFacts aggregates the expenses a user paid for in a time window.
type SpendingFacts struct {
	Currency       string  `json:"currency"`
	TotalSpent     float64 `json:"total_spent"`
	ExpenseCount   int     `json:"expense_count"`
	AverageExpense float64 `json:"average_expense"`
	TopCategory    string  `json:"top_category,omitempty"`
}

// WeeklySpending compares the current week with the previous one.
type WeeklySpending struct {
	Currency string  `json:"currency"`
	ThisWeek float64 `json:"this_week"`
	LastWeek float64 `json:"last_week"`
}
