package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/joho/godotenv"

	"papertrade/configs"
	"papertrade/internal/database"
	httpdelivery "papertrade/internal/delivery/http"
	"papertrade/internal/domain"
	"papertrade/internal/infra"
	"papertrade/internal/middleware"
	"papertrade/internal/repository"
	"papertrade/internal/service"
	"papertrade/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize context
	ctx := context.Background()

	// Initialize storage: Postgres when configured, in-memory otherwise
	var userRepo domain.UserRepository
	var accountRepo domain.AccountRepository

	if cfg.Database.URL != "" {
		db, err := infra.NewDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		userRepo = repository.NewUserRepository(db)
		accountRepo = repository.NewAccountRepository(db)
	} else {
		log.Println("[WARN] DATABASE_URL not set, using in-memory storage")
		store := repository.NewMemoryStore()
		userRepo = store.Users()
		accountRepo = store.Accounts()
	}

	// Initialize services
	tokens := middleware.NewTokenManager(cfg.Auth.JWTSecret)
	priceService := service.NewMarketPriceService()
	executor := usecase.NewOrderExecutor(priceService, accountRepo)
	funding := service.NewFundingService(executor, cfg.Payment.FrontendURL)

	// Initialize market tick scheduler
	scheduler := infra.NewScheduler(priceService, executor, cfg.Market.RefreshSeconds)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start market scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
		Tokens:         tokens,
		AuthHandler:    httpdelivery.NewAuthHandler(userRepo, executor, tokens, cfg.Trading.StartingBalance),
		TradeHandler:   httpdelivery.NewTradeHandler(userRepo, executor, priceService),
		PaymentHandler: httpdelivery.NewPaymentHandler(funding),
		AdminHandler:   httpdelivery.NewAdminHandler(userRepo, accountRepo, priceService),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Papertrade API starting on %s", addr)
	log.Printf("Environment: %s", cfg.Server.Env)
	log.Printf("Starting Balance: $%.2f", cfg.Trading.StartingBalance)
	log.Printf("Market Tick: every %ds", cfg.Market.RefreshSeconds)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
