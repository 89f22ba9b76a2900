// Package money implements arithmetic on the decimal-string balance and
// profit fields. Amounts are kept as strings end to end; unparseable stored
// values are treated as zero, matching how the dashboard has always read them.
package money

import "github.com/shopspring/decimal"

// Scales used by the ledger. Trade initiation rounds balances to cents;
// withdrawals carry crypto-grade precision.
const (
	ScaleBalance    int32 = 2
	ScaleWithdrawal int32 = 7
)

// Parse converts a stored decimal string to a decimal, treating empty or
// malformed input as zero.
func Parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Sub returns stored − amount formatted at the given scale.
func Sub(stored string, amount float64, scale int32) string {
	return Parse(stored).Sub(decimal.NewFromFloat(amount)).StringFixed(scale)
}

// Add returns stored + amount formatted at the given scale.
func Add(stored string, amount float64, scale int32) string {
	return Parse(stored).Add(decimal.NewFromFloat(amount)).StringFixed(scale)
}

// Covers reports whether the stored decimal string is at least amount.
func Covers(stored string, amount float64) bool {
	return Parse(stored).GreaterThanOrEqual(decimal.NewFromFloat(amount))
}
