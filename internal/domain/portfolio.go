package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position is a user's holding in one symbol. AvgPrice is the blended
// cost-weighted mean across all open shares; CurrentValue and ProfitLoss are
// derived from the latest known price and recomputed on every valuation pass.
type Position struct {
	Symbol       string  `json:"symbol"`
	Shares       int64   `json:"shares"`
	AvgPrice     float64 `json:"avg_price"`
	TotalCost    float64 `json:"total_cost"`
	CurrentValue float64 `json:"current_value"`
	ProfitLoss   float64 `json:"profit_loss"`
}

// Portfolio is the aggregate view over a user's positions, ordered by symbol.
// TotalValue and ProfitLoss are always recomputed from the positions, never
// mutated independently.
type Portfolio struct {
	UserID     uuid.UUID  `json:"user_id"`
	Stocks     []Position `json:"stocks"`
	TotalValue float64    `json:"total_value"`
	ProfitLoss float64    `json:"profit_loss"`
}

// Transaction is an immutable record of an executed trade or deposit.
// The log is append-only: entries are never edited or reordered after
// creation, and Date is the execution timestamp.
type Transaction struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Symbol string    `json:"symbol,omitempty"`
	Type   string    `json:"type"`
	Shares int64     `json:"shares,omitempty"`
	Price  float64   `json:"price,omitempty"`
	Total  float64   `json:"total"`
	Date   time.Time `json:"date"`
}

// Transaction type constants
const (
	TradeBuy     = "buy"
	TradeSell    = "sell"
	TradeDeposit = "deposit"
)

// Snapshot is the full serializable trading state of one user: cash balance,
// open positions and the transaction log. It is what the host persists after
// every successful order and what restores an account verbatim on load.
type Snapshot struct {
	UserID       uuid.UUID     `json:"user_id"`
	Balance      float64       `json:"balance"`
	Positions    []Position    `json:"positions"`
	Transactions []Transaction `json:"transactions"`
}

// Quote is the current market view of one symbol from the price source.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}
