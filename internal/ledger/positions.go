package ledger

import "papertrade/internal/domain"

// ApplyBuy records a purchase in the position set. A first buy creates the
// position at the purchase price; subsequent buys blend the average cost as
// the cost-weighted mean of the existing holding and the new lot.
// Affordability is the order executor's responsibility, not the ledger's.
func ApplyBuy(positions map[string]domain.Position, symbol string, shares int64, price float64) {
	cost := float64(shares) * price

	existing, ok := positions[symbol]
	if !ok {
		positions[symbol] = domain.Position{
			Symbol:       symbol,
			Shares:       shares,
			AvgPrice:     price,
			TotalCost:    Round2(cost),
			CurrentValue: Round2(cost),
			ProfitLoss:   0,
		}
		return
	}

	newShares := existing.Shares + shares
	newTotalCost := existing.TotalCost + cost

	pos := domain.Position{
		Symbol:    symbol,
		Shares:    newShares,
		AvgPrice:  Round2(newTotalCost / float64(newShares)),
		TotalCost: Round2(newTotalCost),
	}
	pos.CurrentValue, pos.ProfitLoss = Value(pos, price)
	positions[symbol] = pos
}

// ApplySell records a sale in the position set. Selling every held share
// removes the position entirely; a partial sell reduces shares and scales the
// cost basis down proportionally, leaving the average price unchanged (single
// blended-cost-basis model, no per-lot tracking).
func ApplySell(positions map[string]domain.Position, symbol string, shares int64, price float64) error {
	existing, ok := positions[symbol]
	if !ok {
		return &domain.OrderError{Kind: domain.ErrPositionNotFound, Symbol: symbol}
	}
	if shares > existing.Shares {
		return &domain.OrderError{
			Kind:      domain.ErrInsufficientShares,
			Symbol:    symbol,
			Requested: shares,
			Available: float64(existing.Shares),
		}
	}

	if shares == existing.Shares {
		delete(positions, symbol)
		return nil
	}

	newShares := existing.Shares - shares
	pos := domain.Position{
		Symbol:    symbol,
		Shares:    newShares,
		AvgPrice:  existing.AvgPrice,
		TotalCost: Round2(existing.AvgPrice * float64(newShares)),
	}
	pos.CurrentValue, pos.ProfitLoss = Value(pos, price)
	positions[symbol] = pos
	return nil
}
