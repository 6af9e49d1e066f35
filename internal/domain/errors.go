package domain

import (
	"errors"
	"fmt"
)

// Order rejection reasons. Every one of these is raised before any state is
// mutated, so a failed order leaves balance, positions and the transaction
// log exactly as they were.
var (
	ErrInvalidOrder       = errors.New("share count must be positive")
	ErrUnknownSymbol      = errors.New("no price available for symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNoPosition         = errors.New("no position held in symbol")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
)

// ErrPositionNotFound is the ledger-internal variant of ErrNoPosition. The
// order executor validates holdings before touching the ledger, so this
// should never surface past it.
var ErrPositionNotFound = errors.New("position not found")

// OrderError wraps an order rejection with enough context to render a
// user-facing message. Unwrap makes it errors.Is-compatible with the
// sentinels above. Requested and Available count shares; Total and Available
// are dollar amounts for the funds case.
type OrderError struct {
	Kind      error
	Symbol    string
	Requested int64
	Total     float64
	Available float64
}

func (e *OrderError) Error() string {
	switch {
	case e.Kind == ErrUnknownSymbol || e.Kind == ErrNoPosition:
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Symbol)
	case e.Kind == ErrInsufficientFunds:
		return fmt.Sprintf("%s: %s (order total %.2f, available %.2f)",
			e.Kind.Error(), e.Symbol, e.Total, e.Available)
	case e.Requested > 0:
		return fmt.Sprintf("%s: %s (requested %d, available %.0f)",
			e.Kind.Error(), e.Symbol, e.Requested, e.Available)
	default:
		return e.Kind.Error()
	}
}

func (e *OrderError) Unwrap() error {
	return e.Kind
}
