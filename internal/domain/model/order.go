package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes purchase lifecycle.
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusWaitingVerify OrderStatus = "WAITING_VERIFY"
	OrderStatusCompleted     OrderStatus = "COMPLETED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
	OrderStatusFailed        OrderStatus = "FAILED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:       {OrderStatusCompleted, OrderStatusCancelled, OrderStatusFailed},
	OrderStatusWaitingVerify: {OrderStatusCompleted, OrderStatusCancelled},
}

// Valid reports whether status is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusWaitingVerify, OrderStatusCompleted, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	_, ok := orderTransitions[s]
	return !ok && s.Valid()
}

// CanTransitionTo reports whether target is a valid successor of s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Label is the customer facing description of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "awaiting payment"
	case OrderStatusWaitingVerify:
		return "awaiting verification"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusCancelled:
		return "rejected"
	case OrderStatusFailed:
		return "failed"
	}
	return string(s)
}

// PredecessorsOf lists the states from which target can be reached.
func PredecessorsOf(target OrderStatus) []OrderStatus {
	var from []OrderStatus
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusWaitingVerify} {
		if s.CanTransitionTo(target) {
			from = append(from, s)
		}
	}
	return from
}

// Order describes a single purchase attempt of one product by one user.
type Order struct {
	ID            int64
	UserID        int64
	ProductID     int64
	Total         decimal.Decimal
	Status        OrderStatus
	TransactionID *string
	SlipURL       *string
	SessionID     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentJustified reports whether the order carries evidence that allows completion.
func (o *Order) PaymentJustified() bool {
	if o.TransactionID != nil && *o.TransactionID != "" {
		return true
	}
	if o.SlipURL != nil && *o.SlipURL != "" {
		return true
	}
	return o.Total.IsZero()
}

// NewOrder carries the fields fixed at order creation.
type NewOrder struct {
	UserID    int64
	ProductID int64
	Total     decimal.Decimal
	Status    OrderStatus
	SlipURL   *string
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
}
