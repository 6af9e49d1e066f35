package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"papertrade/internal/domain"
	"papertrade/internal/usecase"
)

// Funding errors
var (
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrSessionCompleted = errors.New("checkout session already completed")
)

// CheckoutSession statuses
const (
	SessionPending   = "PENDING"
	SessionCompleted = "COMPLETED"
)

// CheckoutSession mirrors a hosted-payment checkout: created with an amount,
// confirmed out-of-band by the processor's webhook, then credited to the
// account exactly once.
type CheckoutSession struct {
	ID        uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// FundingService manages add-funds checkout sessions. The payment processor
// itself is external; the only balance mutation path is the order executor's
// CreditBalance, so funding composes with the same invariants as trades.
type FundingService struct {
	executor    *usecase.OrderExecutor
	frontendURL string

	mu       sync.Mutex
	sessions map[uuid.UUID]*CheckoutSession
}

// NewFundingService creates a new FundingService
func NewFundingService(executor *usecase.OrderExecutor, frontendURL string) *FundingService {
	return &FundingService{
		executor:    executor,
		frontendURL: frontendURL,
		sessions:    make(map[uuid.UUID]*CheckoutSession),
	}
}

// CreateSession opens a pending checkout session for the given amount.
func (s *FundingService) CreateSession(userID uuid.UUID, amount float64) (*CheckoutSession, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	session := &CheckoutSession{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Status:    SessionPending,
		CreatedAt: time.Now().UTC(),
	}
	session.URL = fmt.Sprintf("%s/payment-success?session_id=%s", s.frontendURL, session.ID)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("[OK] Checkout session created: %s ($%.2f for user %s)", session.ID, amount, userID)
	return session, nil
}

// Confirm settles a pending session and credits the user's balance. A session
// can be confirmed at most once: the session is claimed under the lock before
// the credit, so concurrent webhook retries see it as already settled. If the
// credit fails the session returns to pending and the processor may retry.
func (s *FundingService) Confirm(ctx context.Context, sessionID uuid.UUID) (*usecase.OrderResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.Status != SessionPending {
		s.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	session.Status = SessionCompleted
	s.mu.Unlock()

	result, err := s.executor.CreditBalance(ctx, session.UserID, session.Amount)
	if err != nil {
		s.mu.Lock()
		session.Status = SessionPending
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to credit balance for session %s: %w", sessionID, err)
	}

	log.Printf("[OK] Checkout session completed: %s ($%.2f for user %s)", sessionID, session.Amount, session.UserID)
	return result, nil
}

// GetSession returns a session by ID.
func (s *FundingService) GetSession(sessionID uuid.UUID) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := *session
	return &out, nil
}
