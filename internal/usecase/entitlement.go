package usecase

import (
	"context"
	"log/slog"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// EntitlementUseCase decides and serves downloads.
type EntitlementUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	logger   *slog.Logger
}

// NewEntitlementUseCase constructs EntitlementUseCase.
func NewEntitlementUseCase(products repository.ProductRepository, orders repository.OrderRepository, logger *slog.Logger) *EntitlementUseCase {
	return &EntitlementUseCase{products: products, orders: orders, logger: logger}
}

// CanDownload is read-only. Free products are open to everyone, admins may
// download anything, everyone else needs a COMPLETED order for the product.
func (u *EntitlementUseCase) CanDownload(ctx context.Context, actor model.Principal, productID int64) (bool, error) {
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return u.entitled(ctx, actor, product)
}

func (u *EntitlementUseCase) entitled(ctx context.Context, actor model.Principal, product *model.Product) (bool, error) {
	if product.Free() {
		return true, nil
	}
	if actor.IsAdmin() {
		return true, nil
	}
	if actor.UserID == 0 {
		return false, nil
	}
	return u.orders.HasCompleted(ctx, actor.UserID, product.ID)
}

// Download resolves the file location for an entitled caller and bumps the
// download counter. Counter failures do not block the download.
func (u *EntitlementUseCase) Download(ctx context.Context, actor model.Principal, productID int64) (string, error) {
	product, err := u.products.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	ok, err := u.entitled(ctx, actor, product)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domainErrors.ErrForbidden
	}

	if err := u.products.IncrementDownloads(ctx, product.ID); err != nil {
		u.logger.Warn("download counter update failed", slog.Int64("product_id", product.ID), slog.String("error", err.Error()))
	}
	return product.FileURL, nil
}
