package ledger

import (
	"errors"
	"reflect"
	"testing"

	"papertrade/internal/domain"
)

func TestApplyBuy(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]domain.Position
		symbol   string
		shares   int64
		price    float64
		want     domain.Position
	}{
		{
			name:     "first buy creates position at purchase price",
			existing: map[string]domain.Position{},
			symbol:   "AAPL",
			shares:   10,
			price:    100,
			want: domain.Position{
				Symbol:       "AAPL",
				Shares:       10,
				AvgPrice:     100,
				TotalCost:    1000,
				CurrentValue: 1000,
				ProfitLoss:   0,
			},
		},
		{
			name: "second buy blends average cost",
			existing: map[string]domain.Position{
				"AAPL": {Symbol: "AAPL", Shares: 10, AvgPrice: 100, TotalCost: 1000, CurrentValue: 1000},
			},
			symbol: "AAPL",
			shares: 10,
			price:  200,
			want: domain.Position{
				Symbol:       "AAPL",
				Shares:       20,
				AvgPrice:     150,
				TotalCost:    3000,
				CurrentValue: 4000,
				ProfitLoss:   1000,
			},
		},
		{
			name: "buy at lower price drags average down",
			existing: map[string]domain.Position{
				"TSLA": {Symbol: "TSLA", Shares: 4, AvgPrice: 250, TotalCost: 1000, CurrentValue: 1000},
			},
			symbol: "TSLA",
			shares: 6,
			price:  200,
			want: domain.Position{
				Symbol:       "TSLA",
				Shares:       10,
				AvgPrice:     220,
				TotalCost:    2200,
				CurrentValue: 2000,
				ProfitLoss:   -200,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ApplyBuy(tt.existing, tt.symbol, tt.shares, tt.price)

			got, ok := tt.existing[tt.symbol]
			if !ok {
				t.Fatalf("position %s not found after buy", tt.symbol)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplySell(t *testing.T) {
	tests := []struct {
		name      string
		existing  map[string]domain.Position
		symbol    string
		shares    int64
		price     float64
		want      *domain.Position // nil means position must be removed
		wantErr   error
	}{
		{
			name: "partial sell scales cost basis, average price unchanged",
			existing: map[string]domain.Position{
				"AAPL": {Symbol: "AAPL", Shares: 20, AvgPrice: 150, TotalCost: 3000, CurrentValue: 3000},
			},
			symbol: "AAPL",
			shares: 5,
			price:  150,
			want: &domain.Position{
				Symbol:       "AAPL",
				Shares:       15,
				AvgPrice:     150,
				TotalCost:    2250,
				CurrentValue: 2250,
				ProfitLoss:   0,
			},
		},
		{
			name: "full liquidation removes position",
			existing: map[string]domain.Position{
				"MSFT": {Symbol: "MSFT", Shares: 3, AvgPrice: 300, TotalCost: 900, CurrentValue: 900},
			},
			symbol: "MSFT",
			shares: 3,
			price:  320,
			want:   nil,
		},
		{
			name:     "sell without position fails",
			existing: map[string]domain.Position{},
			symbol:   "NVDA",
			shares:   1,
			price:    500,
			wantErr:  domain.ErrPositionNotFound,
		},
		{
			name: "sell more than held fails",
			existing: map[string]domain.Position{
				"AAPL": {Symbol: "AAPL", Shares: 2, AvgPrice: 100, TotalCost: 200, CurrentValue: 200},
			},
			symbol:  "AAPL",
			shares:  3,
			price:   100,
			wantErr: domain.ErrInsufficientShares,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplySell(tt.existing, tt.symbol, tt.shares, tt.price)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got, ok := tt.existing[tt.symbol]
			if tt.want == nil {
				if ok {
					t.Fatalf("position %s still present after full liquidation: %+v", tt.symbol, got)
				}
				return
			}
			if !ok {
				t.Fatalf("position %s missing after partial sell", tt.symbol)
			}
			if !reflect.DeepEqual(got, *tt.want) {
				t.Errorf("got %+v, want %+v", got, *tt.want)
			}
		})
	}
}

func TestApplySellFailureLeavesPositionsUntouched(t *testing.T) {
	positions := map[string]domain.Position{
		"AAPL": {Symbol: "AAPL", Shares: 2, AvgPrice: 100, TotalCost: 200, CurrentValue: 200},
	}
	before := positions["AAPL"]

	if err := ApplySell(positions, "AAPL", 5, 120); err == nil {
		t.Fatal("expected error selling more shares than held")
	}

	if !reflect.DeepEqual(positions["AAPL"], before) {
		t.Errorf("position mutated by rejected sell: %+v", positions["AAPL"])
	}
}
