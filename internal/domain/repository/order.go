package repository

import (
	"context"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.NewOrder) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	SetSession(ctx context.Context, orderID int64, sessionID string) error
	// Transition moves the order to status "to" only if its current status is one of "from".
	// It returns ErrNotFound for unknown orders and ErrInvalidTransition when the
	// current status is not in "from".
	Transition(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus, transactionID *string) (*model.Order, error)
	HasCompleted(ctx context.Context, userID, productID int64) (bool, error)
	SelectPendingCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error)
}
