package models

import "errors"

// Error kinds returned by the ledger. Callers compare with errors.Is; every
// producer wraps them with context.
var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidSplit     = errors.New("invalid split")
	ErrNotFound         = errors.New("not found")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("already exists")
)
