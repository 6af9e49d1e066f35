package dto

// OrderRequest represents a buy or sell order payload
type OrderRequest struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// CheckoutRequest represents an add-funds checkout payload
type CheckoutRequest struct {
	Amount float64 `json:"amount"`
}

// WebhookRequest represents a payment confirmation payload
type WebhookRequest struct {
	SessionID string `json:"session_id"`
}

// UserOutput represents user details in API responses
type UserOutput struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Balance  float64 `json:"balance"`
}

// StatisticsOutput represents system-wide counters for the admin dashboard
type StatisticsOutput struct {
	Users        int64 `json:"users"`
	Transactions int64 `json:"transactions"`
	Symbols      int   `json:"symbols"`
}
