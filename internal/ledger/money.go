package ledger

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to cents. Every monetary output is rounded
// at the point of computation so floating-point drift cannot accumulate
// across repeated revaluation passes.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
