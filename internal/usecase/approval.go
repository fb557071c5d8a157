package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// ApprovalOutcome is the admin-facing result of an approval request.
type ApprovalOutcome string

const (
	OutcomeApproved         ApprovalOutcome = "approved"
	OutcomeRejected         ApprovalOutcome = "rejected"
	OutcomeAlreadyProcessed ApprovalOutcome = "already_processed"
)

// ApprovalUseCase exposes the admin approve/reject workflow.
type ApprovalUseCase struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	machine    *OrderUseCase
	priceCheck bool
	logger     *slog.Logger
}

// NewApprovalUseCase constructs ApprovalUseCase.
func NewApprovalUseCase(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	machine *OrderUseCase,
	settings Settings,
	logger *slog.Logger,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		orders:     orders,
		products:   products,
		machine:    machine,
		priceCheck: settings.SlipPriceCheck,
		logger:     logger,
	}
}

// Approve completes the order. A lost race or repeated click is reported as
// OutcomeAlreadyProcessed rather than an error.
func (u *ApprovalUseCase) Approve(ctx context.Context, cmd ApproveOrderCommand) (ApprovalOutcome, *model.Order, error) {
	if !cmd.Actor.IsAdmin() {
		return "", nil, domainErrors.ErrForbidden
	}
	if u.priceCheck {
		if err := u.checkSlipAmount(ctx, cmd.OrderID); err != nil {
			return "", nil, err
		}
	}

	order, err := u.machine.Transition(ctx, cmd.OrderID, model.OrderStatusCompleted, nil)
	if err != nil {
		if isAlreadyProcessed(err) {
			u.logger.Info("order already processed", slog.Int64("order_id", cmd.OrderID), slog.Int64("admin_id", cmd.Actor.UserID))
			return OutcomeAlreadyProcessed, nil, nil
		}
		return "", nil, err
	}
	u.logger.Info("order approved", slog.Int64("order_id", order.ID), slog.Int64("admin_id", cmd.Actor.UserID))
	return OutcomeApproved, order, nil
}

// Reject cancels the order. No side effects fire.
func (u *ApprovalUseCase) Reject(ctx context.Context, cmd RejectOrderCommand) (ApprovalOutcome, *model.Order, error) {
	if !cmd.Actor.IsAdmin() {
		return "", nil, domainErrors.ErrForbidden
	}
	order, err := u.machine.Transition(ctx, cmd.OrderID, model.OrderStatusCancelled, nil)
	if err != nil {
		if isAlreadyProcessed(err) {
			return OutcomeAlreadyProcessed, nil, nil
		}
		return "", nil, err
	}
	u.logger.Info("order rejected", slog.Int64("order_id", order.ID), slog.Int64("admin_id", cmd.Actor.UserID))
	return OutcomeRejected, order, nil
}

func (u *ApprovalUseCase) checkSlipAmount(ctx context.Context, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.SlipURL == nil || order.Status.Terminal() {
		return nil
	}
	product, err := u.products.GetByID(ctx, order.ProductID)
	if err != nil {
		return err
	}
	if !product.Free() && order.Total.LessThan(product.Price) {
		return fmt.Errorf("%w: claimed %s is below price %s", domainErrors.ErrValidation, order.Total.StringFixed(2), product.Price.StringFixed(2))
	}
	return nil
}
