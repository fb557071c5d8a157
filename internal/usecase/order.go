package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// OrderUseCase owns the order state machine.
type OrderUseCase struct {
	orders     repository.OrderRepository
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, dispatcher *Dispatcher, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, dispatcher: dispatcher, logger: logger}
}

// Transition moves the order to target if the state machine allows it.
// Completion additionally requires a payment justification and fires the
// side effects exactly once, for the caller whose update won.
func (u *OrderUseCase) Transition(ctx context.Context, orderID int64, target model.OrderStatus, transactionID *string) (*model.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, target)
	}
	from := model.PredecessorsOf(target)
	if len(from) == 0 {
		return nil, fmt.Errorf("%w: %s is not a reachable status", domainErrors.ErrInvalidTransition, target)
	}

	if target == model.OrderStatusCompleted {
		current, err := u.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current.Status.Terminal() {
			return nil, fmt.Errorf("order %d is %s: %w", orderID, current.Status, domainErrors.ErrInvalidTransition)
		}
		candidate := *current
		if transactionID != nil {
			candidate.TransactionID = transactionID
		}
		if !candidate.PaymentJustified() {
			return nil, fmt.Errorf("%w: order %d has no payment justification", domainErrors.ErrValidation, orderID)
		}
	}

	order, err := u.orders.Transition(ctx, orderID, from, target, transactionID)
	if err != nil {
		return nil, err
	}
	u.logger.Info("order transitioned", slog.Int64("order_id", order.ID), slog.String("status", string(order.Status)))

	if order.Status == model.OrderStatusCompleted {
		u.dispatcher.Dispatch(ctx, order)
	}
	return order, nil
}

// ListByUser returns the buyer's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// Get returns the order if the caller may see it. Foreign orders look missing.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Principal, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// List is the admin view over all orders.
func (u *OrderUseCase) List(ctx context.Context, actor model.Principal, filter model.OrderFilter) ([]model.Order, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrValidation, filter.Status)
	}
	return u.orders.List(ctx, filter)
}

// isAlreadyProcessed reports a transition that lost to an earlier one.
func isAlreadyProcessed(err error) bool {
	return errors.Is(err, domainErrors.ErrInvalidTransition)
}
