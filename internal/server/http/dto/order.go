package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest starts a hosted checkout for one product.
type CheckoutRequest struct {
	ProductID int64 `json:"product_id"`
}

// CheckoutResponse tells the client where to send the buyer.
type CheckoutResponse struct {
	OrderID     int64  `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// OrderResponse describes a single order.
type OrderResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	ProductID     int64           `json:"product_id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"status_label"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	SlipURL       *string         `json:"slip_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Actions       []string        `json:"actions,omitempty"`
}

// ApprovalResponse reports the outcome of an admin decision.
type ApprovalResponse struct {
	Outcome string         `json:"outcome"`
	Order   *OrderResponse `json:"order,omitempty"`
}
