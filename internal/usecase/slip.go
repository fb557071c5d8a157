package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/polkiloo/digistore/internal/adapter/blob"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// SlipUseCase implements the manual bank transfer path.
type SlipUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	store    blob.Store
	logger   *slog.Logger
}

// NewSlipUseCase constructs SlipUseCase.
func NewSlipUseCase(products repository.ProductRepository, orders repository.OrderRepository, store blob.Store, logger *slog.Logger) *SlipUseCase {
	return &SlipUseCase{products: products, orders: orders, store: store, logger: logger}
}

// SubmitSlip stores the proof and creates a WAITING_VERIFY order for review.
// The claimed amount is recorded as the order total.
func (u *SlipUseCase) SubmitSlip(ctx context.Context, cmd SubmitSlipCommand) (*model.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if _, err := u.products.GetByID(ctx, cmd.ProductID); err != nil {
		return nil, err
	}

	url, err := u.store.Save(ctx, cmd.Proof)
	if err != nil {
		if errors.Is(err, domainErrors.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: store slip: %v", domainErrors.ErrExternalService, err)
	}

	order, err := u.orders.Create(ctx, model.NewOrder{
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Total:     cmd.ClaimedAmount,
		Status:    model.OrderStatusWaitingVerify,
		SlipURL:   &url,
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("slip submitted", slog.Int64("order_id", order.ID), slog.String("slip_url", url))
	return order, nil
}
