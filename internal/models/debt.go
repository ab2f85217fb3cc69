package models

// DebtKey identifies a debt. There is at most one Debt record per key.
type DebtKey struct {
	GroupID    string `json:"group_id"`
	DebtorID   string `json:"debtor_id"`
	CreditorID string `json:"creditor_id"`
}

// Debt is a directed obligation: DebtorID owes CreditorID Amount inside a
// group. A debt never has DebtorID == CreditorID.
type Debt struct {
	GroupID    string  `json:"group_id"`
	DebtorID   string  `json:"debtor_id"`
	CreditorID string  `json:"creditor_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Settled    bool    `json:"settled"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
	// SettledAt is zero while the debt is outstanding.
	SettledAt int64 `json:"settled_at,omitempty"`
}

// Key returns the debt's identity.
func (d Debt) Key() DebtKey {
	return DebtKey{GroupID: d.GroupID, DebtorID: d.DebtorID, CreditorID: d.CreditorID}
}

// DebtDelta is a change produced by splitting an expense:
// DebtorID owes CreditorID Amount.
type DebtDelta struct {
	GroupID    string  `json:"group_id"`
	DebtorID   string  `json:"debtor_id"`
	CreditorID string  `json:"creditor_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// Key returns the identity of the debt the delta applies to.
func (d DebtDelta) Key() DebtKey {
	return DebtKey{GroupID: d.GroupID, DebtorID: d.DebtorID, CreditorID: d.CreditorID}
}

// DebtFilter narrows a debt scan. Zero fields do not filter.
type DebtFilter struct {
	// GroupID restricts to one group.
	GroupID string
	// UserID keeps debts where the user is debtor or creditor.
	UserID string
	// Unsettled drops settled debts.
	Unsettled bool
}

// Match reports whether d passes the filter.
func (f DebtFilter) Match(d *Debt) bool {
	if f.GroupID != "" && d.GroupID != f.GroupID {
		return false
	}
	if f.UserID != "" && d.DebtorID != f.UserID && d.CreditorID != f.UserID {
		return false
	}
	if f.Unsettled && d.Settled {
		return false
	}
	return true
}
