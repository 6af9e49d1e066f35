package usecase

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/google/uuid"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

type stubPriceSource struct {
	prices map[string]float64
}

func (s *stubPriceSource) GetPrice(symbol string) (float64, bool) {
	p, ok := s.prices[symbol]
	return p, ok
}

func (s *stubPriceSource) Quotes() []domain.Quote {
	out := make([]domain.Quote, 0, len(s.prices))
	for sym, price := range s.prices {
		out = append(out, domain.Quote{Symbol: sym, Price: price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// failingAccountRepo rejects every save after the first, to exercise the
// commit-failure rollback path.
type failingAccountRepo struct {
	domain.AccountRepository
	failSaves bool
}

var errStorageDown = errors.New("storage down")

func (r *failingAccountRepo) Save(ctx context.Context, snap *domain.Snapshot, appended []domain.Transaction) error {
	if r.failSaves {
		return errStorageDown
	}
	return r.AccountRepository.Save(ctx, snap, appended)
}

func newTestExecutor(t *testing.T, balance float64) (*OrderExecutor, uuid.UUID) {
	t.Helper()

	prices := &stubPriceSource{prices: map[string]float64{
		"AAPL": 100,
		"MSFT": 300,
	}}
	store := repository.NewMemoryStore()
	executor := NewOrderExecutor(prices, store.Accounts())

	userID := uuid.New()
	if err := executor.Open(context.Background(), userID, balance); err != nil {
		t.Fatalf("failed to open account: %v", err)
	}
	return executor, userID
}

func TestBuyAndSellRoundTrip(t *testing.T) {
	executor, userID := newTestExecutor(t, 10000)
	ctx := context.Background()

	buy, err := executor.Buy(ctx, userID, "AAPL", 10)
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if buy.Balance != 9000 {
		t.Errorf("balance after buy = %v, want 9000", buy.Balance)
	}
	if buy.Transaction.Total != 1000 {
		t.Errorf("buy total = %v, want 1000", buy.Transaction.Total)
	}
	if len(buy.Portfolio.Stocks) != 1 || buy.Portfolio.Stocks[0].Shares != 10 {
		t.Errorf("unexpected portfolio after buy: %+v", buy.Portfolio)
	}

	sell, err := executor.Sell(ctx, userID, "AAPL", 10)
	if err != nil {
		t.Fatalf("sell failed: %v", err)
	}
	if sell.Balance != 10000 {
		t.Errorf("balance after round trip = %v, want 10000", sell.Balance)
	}
	if len(sell.Portfolio.Stocks) != 0 {
		t.Errorf("portfolio not empty after full liquidation: %+v", sell.Portfolio)
	}
}

func TestBuyRejections(t *testing.T) {
	executor, userID := newTestExecutor(t, 500)
	ctx := context.Background()

	tests := []struct {
		name    string
		symbol  string
		shares  int64
		wantErr error
	}{
		{"unknown symbol", "NOPE", 1, domain.ErrUnknownSymbol},
		{"zero shares", "AAPL", 0, domain.ErrInvalidOrder},
		{"insufficient funds", "AAPL", 6, domain.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := mustSnapshot(t, executor, userID)

			_, err := executor.Buy(ctx, userID, tt.symbol, tt.shares)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}

			if after := mustSnapshot(t, executor, userID); !reflect.DeepEqual(after, before) {
				t.Error("rejected buy left visible state changes")
			}
		})
	}
}

func TestSellRejections(t *testing.T) {
	executor, userID := newTestExecutor(t, 10000)
	ctx := context.Background()

	if _, err := executor.Buy(ctx, userID, "AAPL", 3); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}

	tests := []struct {
		name    string
		symbol  string
		shares  int64
		wantErr error
	}{
		{"unknown symbol", "NOPE", 1, domain.ErrUnknownSymbol},
		{"no position", "MSFT", 1, domain.ErrNoPosition},
		{"insufficient shares", "AAPL", 4, domain.ErrInsufficientShares},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := mustSnapshot(t, executor, userID)

			_, err := executor.Sell(ctx, userID, tt.symbol, tt.shares)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}

			if after := mustSnapshot(t, executor, userID); !reflect.DeepEqual(after, before) {
				t.Error("rejected sell left visible state changes")
			}
		})
	}
}

func TestSymbolCaseNormalized(t *testing.T) {
	executor, userID := newTestExecutor(t, 10000)
	ctx := context.Background()

	// orders in mixed case must accumulate into one canonical position
	if _, err := executor.Buy(ctx, userID, "aapl", 10); err != nil {
		t.Fatalf("lowercase buy failed: %v", err)
	}
	if _, err := executor.Buy(ctx, userID, "AAPL", 10); err != nil {
		t.Fatalf("uppercase buy failed: %v", err)
	}

	portfolio, err := executor.Portfolio(ctx, userID)
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}
	if len(portfolio.Stocks) != 1 {
		t.Fatalf("got %d positions, want 1: %+v", len(portfolio.Stocks), portfolio.Stocks)
	}
	if portfolio.Stocks[0].Symbol != "AAPL" || portfolio.Stocks[0].Shares != 20 {
		t.Errorf("unexpected position: %+v", portfolio.Stocks[0])
	}

	// selling the combined holding in lowercase must succeed
	sell, err := executor.Sell(ctx, userID, " aapl ", 20)
	if err != nil {
		t.Fatalf("sell of combined holding failed: %v", err)
	}
	if sell.Transaction.Symbol != "AAPL" {
		t.Errorf("transaction symbol = %q, want AAPL", sell.Transaction.Symbol)
	}
	if len(sell.Portfolio.Stocks) != 0 {
		t.Errorf("portfolio not empty after full liquidation: %+v", sell.Portfolio.Stocks)
	}
}

func TestUnknownUser(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 100}}
	store := repository.NewMemoryStore()
	executor := NewOrderExecutor(prices, store.Accounts())

	_, err := executor.Buy(context.Background(), uuid.New(), "AAPL", 1)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("got err %v, want ErrUserNotFound", err)
	}
}

func TestCreditBalance(t *testing.T) {
	executor, userID := newTestExecutor(t, 100)
	ctx := context.Background()

	result, err := executor.CreditBalance(ctx, userID, 400)
	if err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if result.Balance != 500 {
		t.Errorf("balance = %v, want 500", result.Balance)
	}
	if result.Transaction.Type != domain.TradeDeposit {
		t.Errorf("transaction type = %s, want deposit", result.Transaction.Type)
	}

	if _, err := executor.CreditBalance(ctx, userID, -5); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("got err %v, want ErrInvalidAmount", err)
	}
}

func TestTransactionLogGrowsByOnePerOrder(t *testing.T) {
	executor, userID := newTestExecutor(t, 10000)
	ctx := context.Background()

	orders := []struct {
		op     string
		symbol string
		shares int64
	}{
		{"buy", "AAPL", 5},
		{"buy", "MSFT", 2},
		{"sell", "AAPL", 1},
		{"sell", "AAPL", 4},
	}

	for i, order := range orders {
		var err error
		if order.op == "buy" {
			_, err = executor.Buy(ctx, userID, order.symbol, order.shares)
		} else {
			_, err = executor.Sell(ctx, userID, order.symbol, order.shares)
		}
		if err != nil {
			t.Fatalf("order %d failed: %v", i, err)
		}

		log, err := executor.Transactions(ctx, userID)
		if err != nil {
			t.Fatalf("failed to read log: %v", err)
		}
		if len(log) != i+1 {
			t.Fatalf("log length = %d after order %d, want %d", len(log), i, i+1)
		}
	}
}

func TestCommitFailureRollsBack(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 100}}
	store := repository.NewMemoryStore()
	repo := &failingAccountRepo{AccountRepository: store.Accounts()}
	executor := NewOrderExecutor(prices, repo)

	userID := uuid.New()
	ctx := context.Background()
	if err := executor.Open(ctx, userID, 10000); err != nil {
		t.Fatalf("failed to open account: %v", err)
	}

	before := mustSnapshot(t, executor, userID)

	repo.failSaves = true
	if _, err := executor.Buy(ctx, userID, "AAPL", 10); !errors.Is(err, errStorageDown) {
		t.Fatalf("got err %v, want errStorageDown", err)
	}
	repo.failSaves = false

	if after := mustSnapshot(t, executor, userID); !reflect.DeepEqual(after, before) {
		t.Error("failed commit left in-memory state mutated")
	}

	// the account must remain usable after a failed commit
	if _, err := executor.Buy(ctx, userID, "AAPL", 10); err != nil {
		t.Errorf("buy after failed commit errored: %v", err)
	}
}

func TestRestoreFromPersistedSnapshot(t *testing.T) {
	prices := &stubPriceSource{prices: map[string]float64{"AAPL": 100}}
	store := repository.NewMemoryStore()
	userID := uuid.New()
	ctx := context.Background()

	first := NewOrderExecutor(prices, store.Accounts())
	if err := first.Open(ctx, userID, 10000); err != nil {
		t.Fatalf("failed to open account: %v", err)
	}
	if _, err := first.Buy(ctx, userID, "AAPL", 10); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	// a fresh executor over the same store sees the committed state,
	// revalued against current prices
	prices.prices["AAPL"] = 120
	second := NewOrderExecutor(prices, store.Accounts())

	portfolio, err := second.Portfolio(ctx, userID)
	if err != nil {
		t.Fatalf("portfolio failed: %v", err)
	}
	if len(portfolio.Stocks) != 1 {
		t.Fatalf("got %d positions, want 1", len(portfolio.Stocks))
	}
	if portfolio.Stocks[0].CurrentValue != 1200 || portfolio.Stocks[0].ProfitLoss != 200 {
		t.Errorf("restored position not revalued: %+v", portfolio.Stocks[0])
	}

	balance, err := second.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 9000 {
		t.Errorf("balance = %v, want 9000", balance)
	}
}

func mustSnapshot(t *testing.T, executor *OrderExecutor, userID uuid.UUID) *domain.Snapshot {
	t.Helper()

	ctx := context.Background()
	balance, err := executor.Balance(ctx, userID)
	if err != nil {
		t.Fatalf("failed to read balance: %v", err)
	}
	portfolio, err := executor.Portfolio(ctx, userID)
	if err != nil {
		t.Fatalf("failed to read portfolio: %v", err)
	}
	transactions, err := executor.Transactions(ctx, userID)
	if err != nil {
		t.Fatalf("failed to read transactions: %v", err)
	}
	return &domain.Snapshot{
		UserID:       userID,
		Balance:      balance,
		Positions:    portfolio.Stocks,
		Transactions: transactions,
	}
}
