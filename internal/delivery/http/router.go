package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "papertrade/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Tokens         *custommiddleware.TokenManager
	AuthHandler    *AuthHandler
	TradeHandler   *TradeHandler
	PaymentHandler *PaymentHandler
	AdminHandler   *AdminHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for high-frequency polling endpoints to reduce noise
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/stocks"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "papertrade-api",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Market data (public)
	api.GET("/stocks", config.TradeHandler.GetStocks)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.POST("/register", config.AuthHandler.Register)
	}

	// User routes (protected with auth middleware)
	user := api.Group("/user", config.Tokens.Auth)
	{
		user.GET("/me", config.TradeHandler.GetMe)
		user.GET("/portfolio", config.TradeHandler.GetPortfolio)
		user.GET("/transactions", config.TradeHandler.GetTransactions)
		user.POST("/orders/buy", config.TradeHandler.Buy)
		user.POST("/orders/sell", config.TradeHandler.Sell)
	}

	// Payment routes: checkout requires auth, the webhook is called by the
	// payment processor and carries the session id instead.
	payments := api.Group("/payments")
	{
		payments.POST("/checkout", config.PaymentHandler.CreateCheckout, config.Tokens.Auth)
		payments.POST("/webhook", config.PaymentHandler.Webhook)
	}

	// Admin routes (protected with Auth + Admin middleware)
	admin := api.Group("/admin", config.Tokens.Auth, custommiddleware.AdminMiddleware)
	{
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
	}
}
