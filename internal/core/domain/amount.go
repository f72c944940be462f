package domain

import "math"

// Amounts are plain int64 token units. Negative values never enter the
// ledger: the usecase layer rejects them at its boundary, and every
// addition goes through AddAmount so an out-of-range result surfaces as
// ErrOverflow instead of wrapping.

// AddAmount returns a+b, or ErrOverflow if the sum exceeds the int64 range.
// Both operands must be non-negative.
func AddAmount(a, b int64) (int64, error) {
	if a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// ValidAmount reports whether v is usable as a token amount.
func ValidAmount(v int64) bool {
	return v >= 0
}
