package http

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"papertrade/internal/delivery/http/dto"
	"papertrade/internal/middleware"
	"papertrade/internal/service"
)

// PaymentHandler handles add-funds checkout requests
type PaymentHandler struct {
	funding *service.FundingService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(funding *service.FundingService) *PaymentHandler {
	return &PaymentHandler{funding: funding}
}

// CreateCheckout opens a checkout session for adding funds
// POST /api/payments/checkout
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	session, err := h.funding.CreateSession(userID, req.Amount)
	if err != nil {
		return BadRequestResponse(c, "Amount must be positive")
	}

	return CreatedResponse(c, session)
}

// Webhook confirms a completed payment and credits the user's balance. The
// processor calls this out-of-band, so it is not behind auth middleware.
// POST /api/payments/webhook
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var req dto.WebhookRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return BadRequestResponse(c, "Invalid session id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.funding.Confirm(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return NotFoundResponse(c, "Checkout session not found")
		case errors.Is(err, service.ErrSessionCompleted):
			return BadRequestResponse(c, "Checkout session already completed")
		default:
			return InternalServerErrorResponse(c, "Failed to process payment", err)
		}
	}

	return SuccessMessageResponse(c, "Funds added", result)
}
