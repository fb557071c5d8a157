package model

import "github.com/shopspring/decimal"

// PaymentStatus is the gateway's authoritative view of a checkout session.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusExpired PaymentStatus = "expired"
)

// CheckoutSession is created by the payment gateway for a pending order.
type CheckoutSession struct {
	ID          string
	RedirectURL string
}

// SessionRequest describes the payment the gateway should collect.
type SessionRequest struct {
	Amount     decimal.Decimal
	Currency   string
	OrderID    int64
	SuccessURL string
	CancelURL  string
}

// SessionState is returned by the gateway status query.
type SessionState struct {
	ID        string
	Status    PaymentStatus
	PaymentID string
}

// CheckoutResult is returned to the customer after creating a checkout.
type CheckoutResult struct {
	OrderID     int64
	RedirectURL string
}
