package ledger

import "papertrade/internal/domain"

// Value computes the current market value and unrealized profit/loss of a
// position at the given price. Pure function, no side effects.
func Value(pos domain.Position, currentPrice float64) (currentValue, profitLoss float64) {
	currentValue = Round2(float64(pos.Shares) * currentPrice)
	profitLoss = Round2(currentValue - pos.TotalCost)
	return currentValue, profitLoss
}
