package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/domain"
)

// AdminHandler handles admin-only requests
type AdminHandler struct {
	userRepo    domain.UserRepository
	accountRepo domain.AccountRepository
	prices      domain.PriceSource
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(userRepo domain.UserRepository, accountRepo domain.AccountRepository, prices domain.PriceSource) *AdminHandler {
	return &AdminHandler{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		prices:      prices,
	}
}

// GetStatistics returns system-wide counters
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.userRepo.Count(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to count users", err)
	}

	transactions, err := h.accountRepo.CountTransactions(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to count transactions", err)
	}

	return SuccessResponse(c, dto.StatisticsOutput{
		Users:        users,
		Transactions: transactions,
		Symbols:      len(h.prices.Quotes()),
	})
}
