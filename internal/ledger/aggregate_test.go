package ledger

import (
	"reflect"
	"testing"

	"papertrade/internal/domain"
)

func lookupFrom(prices map[string]float64) PriceLookup {
	return func(symbol string) (float64, bool) {
		p, ok := prices[symbol]
		return p, ok
	}
}

func TestRecompute(t *testing.T) {
	positions := map[string]domain.Position{
		"AAPL": {Symbol: "AAPL", Shares: 10, AvgPrice: 100, TotalCost: 1000, CurrentValue: 1000},
		"MSFT": {Symbol: "MSFT", Shares: 2, AvgPrice: 300, TotalCost: 600, CurrentValue: 600},
	}
	lookup := lookupFrom(map[string]float64{"AAPL": 120, "MSFT": 250})

	totalValue, profitLoss := Recompute(positions, lookup)

	if totalValue != 1700 {
		t.Errorf("totalValue = %v, want 1700", totalValue)
	}
	// cost 1600, value 1700
	if profitLoss != 100 {
		t.Errorf("profitLoss = %v, want 100", profitLoss)
	}
	if positions["AAPL"].CurrentValue != 1200 || positions["AAPL"].ProfitLoss != 200 {
		t.Errorf("AAPL not refreshed: %+v", positions["AAPL"])
	}
	if positions["MSFT"].CurrentValue != 500 || positions["MSFT"].ProfitLoss != -100 {
		t.Errorf("MSFT not refreshed: %+v", positions["MSFT"])
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	positions := map[string]domain.Position{
		"AAPL": {Symbol: "AAPL", Shares: 7, AvgPrice: 178.72, TotalCost: 1251.04, CurrentValue: 1251.04},
	}
	lookup := lookupFrom(map[string]float64{"AAPL": 181.33})

	v1, p1 := Recompute(positions, lookup)
	after := map[string]domain.Position{"AAPL": positions["AAPL"]}
	v2, p2 := Recompute(positions, lookup)

	if v1 != v2 || p1 != p2 {
		t.Errorf("totals changed on second pass: (%v, %v) vs (%v, %v)", v1, p1, v2, p2)
	}
	if !reflect.DeepEqual(positions, after) {
		t.Errorf("positions changed on second pass: %+v", positions)
	}
}

func TestRecomputeUnknownSymbolLeftUnchanged(t *testing.T) {
	positions := map[string]domain.Position{
		"GONE": {Symbol: "GONE", Shares: 5, AvgPrice: 10, TotalCost: 50, CurrentValue: 55, ProfitLoss: 5},
		"AAPL": {Symbol: "AAPL", Shares: 1, AvgPrice: 100, TotalCost: 100, CurrentValue: 100},
	}
	lookup := lookupFrom(map[string]float64{"AAPL": 110})

	totalValue, profitLoss := Recompute(positions, lookup)

	if got := positions["GONE"]; got.CurrentValue != 55 || got.ProfitLoss != 5 {
		t.Errorf("position with missing price was touched: %+v", got)
	}
	if _, ok := positions["GONE"]; !ok {
		t.Error("position with missing price was dropped")
	}
	// stale 55 + refreshed 110 against cost 150
	if totalValue != 165 {
		t.Errorf("totalValue = %v, want 165", totalValue)
	}
	if profitLoss != 15 {
		t.Errorf("profitLoss = %v, want 15", profitLoss)
	}
}

func TestRecomputeEmpty(t *testing.T) {
	totalValue, profitLoss := Recompute(map[string]domain.Position{}, lookupFrom(nil))
	if totalValue != 0 || profitLoss != 0 {
		t.Errorf("empty portfolio totals = (%v, %v), want (0, 0)", totalValue, profitLoss)
	}
}
