package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"papertrade/internal/domain"
	"papertrade/internal/ledger"
)

// OrderExecutor is the public entry point for trading. It validates orders
// against the current price source and account state, applies them to the
// ledger, and persists the resulting snapshot as one logical unit: if the
// commit step fails the in-memory mutation is rolled back, so no partial
// state is ever observable.
type OrderExecutor struct {
	prices   domain.PriceSource
	accounts domain.AccountRepository

	mu     sync.Mutex
	loaded map[uuid.UUID]*accountEntry
}

// accountEntry serializes all operations on one user's account. Orders and
// valuation refresh are mutually exclusive over the same state.
type accountEntry struct {
	mu   sync.Mutex
	acct *ledger.Account
}

// OrderResult is returned after a successful buy, sell or deposit.
type OrderResult struct {
	Balance     float64            `json:"balance"`
	Portfolio   domain.Portfolio   `json:"portfolio"`
	Transaction domain.Transaction `json:"transaction"`
}

// NewOrderExecutor creates a new OrderExecutor
func NewOrderExecutor(prices domain.PriceSource, accounts domain.AccountRepository) *OrderExecutor {
	return &OrderExecutor{
		prices:   prices,
		accounts: accounts,
		loaded:   make(map[uuid.UUID]*accountEntry),
	}
}

// Open creates and persists an empty account with an opening balance.
func (e *OrderExecutor) Open(ctx context.Context, userID uuid.UUID, balance float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.loaded[userID]; ok {
		return fmt.Errorf("account already open for user %s", userID)
	}

	acct := ledger.NewAccount(userID, balance)
	if err := e.accounts.Save(ctx, acct.Snapshot(), nil); err != nil {
		return fmt.Errorf("failed to persist new account: %w", err)
	}

	e.loaded[userID] = &accountEntry{acct: acct}
	return nil
}

// Buy executes a market buy of shares at the current price.
func (e *OrderExecutor) Buy(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*OrderResult, error) {
	symbol = normalizeSymbol(symbol)

	ent, err := e.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	price, ok := e.prices.GetPrice(symbol)
	if !ok {
		return nil, &domain.OrderError{Kind: domain.ErrUnknownSymbol, Symbol: symbol}
	}

	before := ent.acct.Snapshot()
	tx, err := ent.acct.Buy(symbol, shares, price)
	if err != nil {
		return nil, err
	}

	if err := e.commit(ctx, ent, before, tx); err != nil {
		return nil, err
	}

	log.Printf("[OK] Order executed: BUY %d %s @ %.2f (total %.2f)", shares, symbol, price, tx.Total)
	return e.result(ent, tx), nil
}

// Sell executes a market sell of shares at the current price.
func (e *OrderExecutor) Sell(ctx context.Context, userID uuid.UUID, symbol string, shares int64) (*OrderResult, error) {
	symbol = normalizeSymbol(symbol)

	ent, err := e.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	price, ok := e.prices.GetPrice(symbol)
	if !ok {
		return nil, &domain.OrderError{Kind: domain.ErrUnknownSymbol, Symbol: symbol}
	}

	before := ent.acct.Snapshot()
	tx, err := ent.acct.Sell(symbol, shares, price)
	if err != nil {
		return nil, err
	}

	if err := e.commit(ctx, ent, before, tx); err != nil {
		return nil, err
	}

	log.Printf("[OK] Order executed: SELL %d %s @ %.2f (total %.2f)", shares, symbol, price, tx.Total)
	return e.result(ent, tx), nil
}

// CreditBalance increases a user's balance by a confirmed funding amount.
// This is the only mutation point external funding events may use.
func (e *OrderExecutor) CreditBalance(ctx context.Context, userID uuid.UUID, amount float64) (*OrderResult, error) {
	ent, err := e.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()

	before := ent.acct.Snapshot()
	tx, err := ent.acct.Credit(amount)
	if err != nil {
		return nil, err
	}

	if err := e.commit(ctx, ent, before, tx); err != nil {
		return nil, err
	}

	log.Printf("[OK] Balance credited: %.2f for user %s", amount, userID)
	return e.result(ent, tx), nil
}

// Balance returns the user's current cash balance.
func (e *OrderExecutor) Balance(ctx context.Context, userID uuid.UUID) (float64, error) {
	ent, err := e.account(ctx, userID)
	if err != nil {
		return 0, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.acct.Balance, nil
}

// Portfolio returns the user's portfolio revalued against current prices.
func (e *OrderExecutor) Portfolio(ctx context.Context, userID uuid.UUID) (domain.Portfolio, error) {
	ent, err := e.account(ctx, userID)
	if err != nil {
		return domain.Portfolio{}, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.acct.Portfolio(e.prices.GetPrice), nil
}

// Transactions returns the user's transaction log in execution order.
func (e *OrderExecutor) Transactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	ent, err := e.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	ent.mu.Lock()
	defer ent.mu.Unlock()
	return ent.acct.Transactions(), nil
}

// RevalueAll refreshes portfolio valuations of every loaded account against
// current prices. Runs on the scheduler tick; each account is refreshed under
// its own lock so revaluation never races with order execution.
func (e *OrderExecutor) RevalueAll() {
	e.mu.Lock()
	entries := make([]*accountEntry, 0, len(e.loaded))
	for _, ent := range e.loaded {
		entries = append(entries, ent)
	}
	e.mu.Unlock()

	for _, ent := range entries {
		ent.mu.Lock()
		ent.acct.Portfolio(e.prices.GetPrice)
		ent.mu.Unlock()
	}
}

// account returns the serialized entry for a user, loading the persisted
// snapshot on first access and refreshing its valuations against current
// prices.
func (e *OrderExecutor) account(ctx context.Context, userID uuid.UUID) (*accountEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ent, ok := e.loaded[userID]; ok {
		return ent, nil
	}

	snap, err := e.accounts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	acct := ledger.RestoreAccount(snap)
	acct.Portfolio(e.prices.GetPrice)

	ent := &accountEntry{acct: acct}
	e.loaded[userID] = ent
	return ent, nil
}

// commit persists the mutated account state; on failure the in-memory
// mutation is rolled back to the pre-order snapshot.
func (e *OrderExecutor) commit(ctx context.Context, ent *accountEntry, before *domain.Snapshot, tx domain.Transaction) error {
	if err := e.accounts.Save(ctx, ent.acct.Snapshot(), []domain.Transaction{tx}); err != nil {
		ent.acct.Reset(before)
		return fmt.Errorf("failed to persist order: %w", err)
	}
	return nil
}

// normalizeSymbol canonicalizes a ticker so the price source, the position
// map and the transaction log all key on one form.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (e *OrderExecutor) result(ent *accountEntry, tx domain.Transaction) *OrderResult {
	return &OrderResult{
		Balance:     ent.acct.Balance,
		Portfolio:   ent.acct.Portfolio(e.prices.GetPrice),
		Transaction: tx,
	}
}
