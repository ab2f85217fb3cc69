package models

import "math"

// Epsilon is the smallest amount treated as non-zero (one cent).
const Epsilon = 0.01

// IsZero reports whether amount is within Epsilon of zero.
func IsZero(amount float64) bool {
	return math.Abs(amount) < Epsilon
}
