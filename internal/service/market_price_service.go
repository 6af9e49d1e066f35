package service

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"papertrade/internal/domain"
	"papertrade/internal/ledger"
)

// MarketPriceService simulates a live market over a fixed universe of
// symbols. Prices move on a random walk each tick; the walk floor is $0.01
// so a symbol never becomes worthless or negative.
type MarketPriceService struct {
	mu     sync.RWMutex
	quotes map[string]*domain.Quote
	rng    *rand.Rand
}

// defaultUniverse seeds the simulated market.
var defaultUniverse = []domain.Quote{
	{Symbol: "AAPL", Name: "Apple Inc.", Price: 178.72},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 146.88},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.80},
	{Symbol: "META", Name: "Meta Platforms Inc.", Price: 334.92},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Price: 378.91},
	{Symbol: "NFLX", Name: "Netflix Inc.", Price: 492.19},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Price: 495.22},
	{Symbol: "TSLA", Name: "Tesla Inc.", Price: 238.45},
}

// NewMarketPriceService creates a simulated price source over the default
// universe.
func NewMarketPriceService() *MarketPriceService {
	return NewMarketPriceServiceWithSeed(time.Now().UnixNano())
}

// NewMarketPriceServiceWithSeed creates a simulated price source with a
// deterministic walk, for tests.
func NewMarketPriceServiceWithSeed(seed int64) *MarketPriceService {
	s := &MarketPriceService{
		quotes: make(map[string]*domain.Quote, len(defaultUniverse)),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, q := range defaultUniverse {
		quote := q
		s.quotes[quote.Symbol] = &quote
	}
	return s
}

// GetPrice returns the current price for a symbol, or false if the symbol is
// not in the simulated universe.
func (s *MarketPriceService) GetPrice(symbol string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, ok := s.quotes[strings.ToUpper(symbol)]
	if !ok {
		return 0, false
	}
	return quote.Price, true
}

// Quotes returns the current market view of every symbol, ordered by symbol.
func (s *MarketPriceService) Quotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, 0, len(s.quotes))
	for _, quote := range s.quotes {
		out = append(out, *quote)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Advance moves every price one random-walk step. The walk drifts slightly
// upward: each step is uniform in (-0.90, 1.10), and the price floor is
// $0.01. Change and ChangePercent accumulate across steps. Symbols step in
// sorted order so a seeded walk is reproducible.
func (s *MarketPriceService) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbols := make([]string, 0, len(s.quotes))
	for sym := range s.quotes {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		quote := s.quotes[sym]
		step := (s.rng.Float64() - 0.45) * 2
		newPrice := quote.Price + step
		if newPrice < 0.01 {
			newPrice = 0.01
		}
		newPrice = ledger.Round2(newPrice)

		quote.Change = ledger.Round2(newPrice - quote.Price + quote.Change)
		quote.ChangePercent = ledger.Round2((newPrice-quote.Price)/quote.Price*100 + quote.ChangePercent)
		quote.Price = newPrice
	}
}
