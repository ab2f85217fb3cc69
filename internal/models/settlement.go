package models

// Transfer is a suggested payment that moves money from a net debtor to a
// net creditor. Produced by the settlement planner, never stored.
type Transfer struct {
	// From is the user who should pay.
	From string `json:"from"`

	// To is the user who should receive.
	To string `json:"to"`

	// Amount is always greater than Epsilon.
	Amount float64 `json:"amount"`

	Currency string `json:"currency"`
}
