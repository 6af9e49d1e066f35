package ledger

import "papertrade/internal/domain"

// PriceLookup resolves the current price for a symbol. The second return
// value reports whether the source knows the symbol at all.
type PriceLookup func(symbol string) (float64, bool)

// Recompute refreshes every position's valuation against the price lookup and
// rebuilds the portfolio totals. Positions whose symbol is momentarily
// missing from the source keep their previously stored valuation; they are
// never dropped. Deterministic and idempotent: calling twice with unchanged
// inputs yields identical totals.
func Recompute(positions map[string]domain.Position, lookup PriceLookup) (totalValue, profitLoss float64) {
	var sumValue, sumCost float64

	for symbol, pos := range positions {
		if price, ok := lookup(symbol); ok {
			pos.CurrentValue, pos.ProfitLoss = Value(pos, price)
			positions[symbol] = pos
		}
		sumValue += pos.CurrentValue
		sumCost += pos.TotalCost
	}

	totalValue = Round2(sumValue)
	profitLoss = Round2(totalValue - sumCost)
	return totalValue, profitLoss
}
