package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"papertrade/internal/domain"
)

// Account is the trading state machine for one user: cash balance, open
// positions and the append-only transaction log. Buy, Sell and Credit are its
// only transitions; each either fully commits or fails without mutating
// anything. The account itself is not goroutine-safe — callers serialize
// access per user.
type Account struct {
	UserID       uuid.UUID
	Balance      float64
	positions    map[string]domain.Position
	transactions []domain.Transaction
}

// NewAccount creates an empty account with an opening cash balance.
func NewAccount(userID uuid.UUID, balance float64) *Account {
	return &Account{
		UserID:    userID,
		Balance:   Round2(balance),
		positions: make(map[string]domain.Position),
	}
}

// RestoreAccount rebuilds an account verbatim from a persisted snapshot. No
// history is recomputed; valuations are refreshed separately against current
// prices once a price source is available.
func RestoreAccount(snap *domain.Snapshot) *Account {
	acct := &Account{
		UserID:       snap.UserID,
		Balance:      snap.Balance,
		positions:    make(map[string]domain.Position, len(snap.Positions)),
		transactions: make([]domain.Transaction, len(snap.Transactions)),
	}
	for _, pos := range snap.Positions {
		acct.positions[pos.Symbol] = pos
	}
	copy(acct.transactions, snap.Transactions)
	return acct
}

// Buy debits the balance, applies the purchase to the position set and
// appends a transaction, as one all-or-nothing unit.
func (a *Account) Buy(symbol string, shares int64, price float64) (domain.Transaction, error) {
	if shares <= 0 {
		return domain.Transaction{}, &domain.OrderError{Kind: domain.ErrInvalidOrder, Symbol: symbol}
	}

	total := Round2(float64(shares) * price)
	if a.Balance < total {
		return domain.Transaction{}, &domain.OrderError{
			Kind:      domain.ErrInsufficientFunds,
			Symbol:    symbol,
			Requested: shares,
			Total:     total,
			Available: a.Balance,
		}
	}

	a.Balance = Round2(a.Balance - total)
	ApplyBuy(a.positions, symbol, shares, price)

	tx := domain.Transaction{
		ID:     uuid.New(),
		UserID: a.UserID,
		Symbol: symbol,
		Type:   domain.TradeBuy,
		Shares: shares,
		Price:  price,
		Total:  total,
		Date:   time.Now().UTC(),
	}
	a.transactions = append(a.transactions, tx)
	return tx, nil
}

// Sell credits the balance, applies the sale to the position set and appends
// a transaction, as one all-or-nothing unit.
func (a *Account) Sell(symbol string, shares int64, price float64) (domain.Transaction, error) {
	if shares <= 0 {
		return domain.Transaction{}, &domain.OrderError{Kind: domain.ErrInvalidOrder, Symbol: symbol}
	}

	existing, ok := a.positions[symbol]
	if !ok {
		return domain.Transaction{}, &domain.OrderError{Kind: domain.ErrNoPosition, Symbol: symbol}
	}
	if shares > existing.Shares {
		return domain.Transaction{}, &domain.OrderError{
			Kind:      domain.ErrInsufficientShares,
			Symbol:    symbol,
			Requested: shares,
			Available: float64(existing.Shares),
		}
	}

	total := Round2(float64(shares) * price)
	if err := ApplySell(a.positions, symbol, shares, price); err != nil {
		return domain.Transaction{}, err
	}
	a.Balance = Round2(a.Balance + total)

	tx := domain.Transaction{
		ID:     uuid.New(),
		UserID: a.UserID,
		Symbol: symbol,
		Type:   domain.TradeSell,
		Shares: shares,
		Price:  price,
		Total:  total,
		Date:   time.Now().UTC(),
	}
	a.transactions = append(a.transactions, tx)
	return tx, nil
}

// Credit increases the balance by a confirmed funding amount and records a
// deposit transaction. This is the only mutation point funding may use, so it
// composes with the same balance invariants as trades.
func (a *Account) Credit(amount float64) (domain.Transaction, error) {
	if amount <= 0 {
		return domain.Transaction{}, domain.ErrInvalidAmount
	}

	amount = Round2(amount)
	a.Balance = Round2(a.Balance + amount)

	tx := domain.Transaction{
		ID:     uuid.New(),
		UserID: a.UserID,
		Type:   domain.TradeDeposit,
		Total:  amount,
		Date:   time.Now().UTC(),
	}
	a.transactions = append(a.transactions, tx)
	return tx, nil
}

// Portfolio refreshes valuations against the lookup and returns the
// aggregate view, positions ordered by symbol.
func (a *Account) Portfolio(lookup PriceLookup) domain.Portfolio {
	totalValue, profitLoss := Recompute(a.positions, lookup)

	stocks := make([]domain.Position, 0, len(a.positions))
	for _, pos := range a.positions {
		stocks = append(stocks, pos)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })

	return domain.Portfolio{
		UserID:     a.UserID,
		Stocks:     stocks,
		TotalValue: totalValue,
		ProfitLoss: profitLoss,
	}
}

// Transactions returns a copy of the log in append (execution) order.
func (a *Account) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Snapshot returns a deep copy of the full account state, positions ordered
// by symbol, suitable for persistence or rollback.
func (a *Account) Snapshot() *domain.Snapshot {
	positions := make([]domain.Position, 0, len(a.positions))
	for _, pos := range a.positions {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })

	transactions := make([]domain.Transaction, len(a.transactions))
	copy(transactions, a.transactions)

	return &domain.Snapshot{
		UserID:       a.UserID,
		Balance:      a.Balance,
		Positions:    positions,
		Transactions: transactions,
	}
}

// Reset replaces the account state with a snapshot. Used to roll back a
// mutation whose commit step failed.
func (a *Account) Reset(snap *domain.Snapshot) {
	restored := RestoreAccount(snap)
	a.UserID = restored.UserID
	a.Balance = restored.Balance
	a.positions = restored.positions
	a.transactions = restored.transactions
}
