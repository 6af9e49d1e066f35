package infra

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"papertrade/internal/service"
	"papertrade/internal/usecase"
)

// Scheduler drives the simulated market: each tick advances the price walk
// and revalues every loaded portfolio against the new prices. Revaluation
// runs under each account's lock, so it never races with order execution.
type Scheduler struct {
	cron     *cron.Cron
	prices   *service.MarketPriceService
	executor *usecase.OrderExecutor
	interval int
}

// NewScheduler creates a new scheduler.
// interval is the tick period in seconds; it defaults to 5 when non-positive.
func NewScheduler(prices *service.MarketPriceService, executor *usecase.OrderExecutor, interval int) *Scheduler {
	if interval <= 0 {
		interval = 5
	}
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		prices:   prices,
		executor: executor,
		interval: interval,
	}
}

// Start starts the market tick
func (s *Scheduler) Start() error {
	spec := fmt.Sprintf("@every %ds", s.interval)

	_, err := s.cron.AddFunc(spec, func() {
		s.prices.Advance()
		s.executor.RevalueAll()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("[OK] Market scheduler started (tick every %ds)", s.interval)
	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[OK] Market scheduler stopped")
}
