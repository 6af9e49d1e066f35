package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/domain"
	"papertrade/internal/middleware"
	"papertrade/internal/usecase"
)

// TradeHandler handles trading and account requests
type TradeHandler struct {
	userRepo domain.UserRepository
	executor *usecase.OrderExecutor
	prices   domain.PriceSource
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(userRepo domain.UserRepository, executor *usecase.OrderExecutor, prices domain.PriceSource) *TradeHandler {
	return &TradeHandler{
		userRepo: userRepo,
		executor: executor,
		prices:   prices,
	}
}

// GetStocks returns the current market quotes
// GET /api/stocks
func (h *TradeHandler) GetStocks(c echo.Context) error {
	return SuccessResponse(c, h.prices.Quotes())
}

// GetMe returns current user details
// GET /api/user/me
func (h *TradeHandler) GetMe(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get user details", err)
	}

	balance, err := h.executor.Balance(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get balance", err)
	}

	return SuccessResponse(c, dto.UserOutput{
		ID:       user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
		Balance:  balance,
	})
}

// GetPortfolio returns the user's portfolio revalued against current prices
// GET /api/user/portfolio
func (h *TradeHandler) GetPortfolio(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	portfolio, err := h.executor.Portfolio(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get portfolio", err)
	}

	return SuccessResponse(c, portfolio)
}

// GetTransactions returns the user's transaction history, newest first.
// Day-grouping is a presentation concern; RFC3339 dates plus this ordering
// are enough for clients to group deterministically.
// GET /api/user/transactions
func (h *TradeHandler) GetTransactions(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	transactions, err := h.executor.Transactions(ctx, userID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to get transactions", err)
	}

	// Reverse append order: newest first
	for i, j := 0, len(transactions)-1; i < j; i, j = i+1, j-1 {
		transactions[i], transactions[j] = transactions[j], transactions[i]
	}

	return SuccessResponse(c, transactions)
}

// Buy executes a buy order at the current market price
// POST /api/user/orders/buy
func (h *TradeHandler) Buy(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.executor.Buy(ctx, userID, req.Symbol, req.Shares)
	if err != nil {
		return OrderRejectedResponse(c, err)
	}

	return SuccessResponse(c, result)
}

// Sell executes a sell order at the current market price
// POST /api/user/orders/sell
func (h *TradeHandler) Sell(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.executor.Sell(ctx, userID, req.Symbol, req.Shares)
	if err != nil {
		return OrderRejectedResponse(c, err)
	}

	return SuccessResponse(c, result)
}
