package models

// DefaultExpenseCategory is the category of an expense recorded without one.
const DefaultExpenseCategory = "General"

// Expense is a single payment event inside a group. Once its debts have been
// derived the expense is never edited.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the group the expense belongs to.
	GroupID string `json:"group_id"`

	// Description is a human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Amount is the total paid, in Currency. Always positive.
	Amount float64 `json:"amount"`

	// Currency is copied from the group when left empty.
	Currency string `json:"currency"`

	// PayerID is the member who paid.
	PayerID string `json:"payer_id"`

	// Participants are the members the cost is split across. The payer
	// does not have to be one of them.
	Participants []string `json:"participants"`

	// SplitAll splits the expense across every member of the group at the
	// time it is recorded. Participants is filled in when it is resolved.
	SplitAll bool `json:"split_all"`

	// Category is a free-form tag used by spending reports.
	Category string `json:"category"`

	// CreatedAt is the Unix millisecond timestamp of the expense.
	CreatedAt int64 `json:"created_at"`
}

// ExpenseFilter narrows an expense scan. Zero fields do not filter.
// From is inclusive and To is exclusive, both Unix milliseconds.
type ExpenseFilter struct {
	GroupID string
	PayerID string
	From    int64
	To      int64
}

// Match reports whether e passes the filter.
func (f ExpenseFilter) Match(e *Expense) bool {
	if f.GroupID != "" && e.GroupID != f.GroupID {
		return false
	}
	if f.PayerID != "" && e.PayerID != f.PayerID {
		return false
	}
	if f.From != 0 && e.CreatedAt < f.From {
		return false
	}
	if f.To != 0 && e.CreatedAt >= f.To {
		return false
	}
	return true
}
