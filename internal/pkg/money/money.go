// Package money centralizes the marketplace's decimal conventions: a single
// fixed currency (QAR) and all totals rounded to 2 decimal places.
package money

import "github.com/shopspring/decimal"

// Round2 rounds to the 2 decimal places every monetary total is transmitted
// with.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Positive reports whether d is strictly greater than zero.
func Positive(d decimal.Decimal) bool {
	return d.IsPositive()
}

// MulInt multiplies a per-unit amount by a count, rounded to 2dp.
func MulInt(d decimal.Decimal, n int) decimal.Decimal {
	return Round2(d.Mul(decimal.NewFromInt(int64(n))))
}
