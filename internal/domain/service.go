package domain

// PriceSource supplies the current price per symbol. The ledger core treats
// it as a pure lookup; how prices are produced (simulated walk, external
// feed) is the implementation's concern.
type PriceSource interface {
	// GetPrice returns the current price for a symbol, or false if the
	// symbol is unknown to the source.
	GetPrice(symbol string) (float64, bool)

	// Quotes returns the current market view of every known symbol,
	// ordered by symbol.
	Quotes() []Quote
}
