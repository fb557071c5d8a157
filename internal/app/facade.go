package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/usecase"
)

// HealthChecker reports whether backing infrastructure is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// UseCases groups the application services exposed through the facade.
type UseCases struct {
	fx.In

	Auth          *usecase.AuthUseCase
	Gamification  *usecase.GamificationUseCase
	Orders        *usecase.OrderUseCase
	Checkout      *usecase.CheckoutUseCase
	Slips         *usecase.SlipUseCase
	Approvals     *usecase.ApprovalUseCase
	Entitlements  *usecase.EntitlementUseCase
	Catalog       *usecase.CatalogUseCase
	Notifications *usecase.NotificationUseCase
	Licenses      *usecase.LicenseUseCase
}

// StoreFacade is the single entry point used by HTTP handlers and the reconciler.
type StoreFacade struct {
	uc     UseCases
	health HealthChecker
}

func NewStoreFacade(uc UseCases, health HealthChecker) *StoreFacade {
	return &StoreFacade{uc: uc, health: health}
}

func (f *StoreFacade) Register(ctx context.Context, login, email, password string) (string, error) {
	_, token, err := f.uc.Auth.Register(ctx, login, email, password)
	return token, err
}

func (f *StoreFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.uc.Auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StoreFacade) ParseToken(token string) (int64, error) {
	return f.uc.Auth.ParseToken(token)
}

func (f *StoreFacade) Principal(ctx context.Context, userID int64) (model.Principal, error) {
	return f.uc.Auth.Principal(ctx, userID)
}

func (f *StoreFacade) Profile(ctx context.Context, userID int64) (*model.User, *model.GamificationProfile, error) {
	user, err := f.uc.Auth.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := f.uc.Gamification.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

func (f *StoreFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.uc.Catalog.List(ctx)
}

func (f *StoreFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.uc.Catalog.Get(ctx, id)
}

func (f *StoreFacade) CreateProduct(ctx context.Context, cmd usecase.CreateProductCommand) (*model.Product, error) {
	return f.uc.Catalog.Create(ctx, cmd)
}

func (f *StoreFacade) Download(ctx context.Context, actor model.Principal, productID int64) (string, error) {
	return f.uc.Entitlements.Download(ctx, actor, productID)
}

func (f *StoreFacade) Checkout(ctx context.Context, cmd usecase.CheckoutCommand) (*model.CheckoutResult, error) {
	return f.uc.Checkout.CreateCheckout(ctx, cmd)
}

func (f *StoreFacade) ConfirmCheckout(ctx context.Context, cmd usecase.ConfirmCheckoutCommand) (*model.Order, error) {
	return f.uc.Checkout.ConfirmCheckout(ctx, cmd)
}

func (f *StoreFacade) SubmitSlip(ctx context.Context, cmd usecase.SubmitSlipCommand) (*model.Order, error) {
	return f.uc.Slips.SubmitSlip(ctx, cmd)
}

func (f *StoreFacade) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.uc.Orders.ListByUser(ctx, userID)
}

func (f *StoreFacade) Order(ctx context.Context, actor model.Principal, orderID int64) (*model.Order, error) {
	return f.uc.Orders.Get(ctx, actor, orderID)
}

func (f *StoreFacade) AdminOrders(ctx context.Context, actor model.Principal, filter model.OrderFilter) ([]model.Order, error) {
	return f.uc.Orders.List(ctx, actor, filter)
}

func (f *StoreFacade) Approve(ctx context.Context, cmd usecase.ApproveOrderCommand) (usecase.ApprovalOutcome, *model.Order, error) {
	return f.uc.Approvals.Approve(ctx, cmd)
}

func (f *StoreFacade) Reject(ctx context.Context, cmd usecase.RejectOrderCommand) (usecase.ApprovalOutcome, *model.Order, error) {
	return f.uc.Approvals.Reject(ctx, cmd)
}

func (f *StoreFacade) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	return f.uc.Notifications.List(ctx, userID)
}

func (f *StoreFacade) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return f.uc.Notifications.MarkRead(ctx, userID, notificationID)
}

func (f *StoreFacade) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	return f.uc.Notifications.MarkAllRead(ctx, userID)
}

func (f *StoreFacade) UnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	return f.uc.Notifications.UnreadCount(ctx, userID)
}

func (f *StoreFacade) Licenses(ctx context.Context, userID int64) ([]model.OwnedLicense, error) {
	return f.uc.Licenses.ListByUser(ctx, userID)
}

func (f *StoreFacade) PendingCheckouts(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	return f.uc.Checkout.PendingCheckouts(ctx, grace, limit)
}

func (f *StoreFacade) ReconcileCheckout(ctx context.Context, order model.Order) (model.OrderStatus, error) {
	return f.uc.Checkout.Reconcile(ctx, order)
}

func (f *StoreFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
