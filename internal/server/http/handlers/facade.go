package handlers

import (
	"context"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, email, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
	Principal(ctx context.Context, userID int64) (model.Principal, error)
	Profile(ctx context.Context, userID int64) (*model.User, *model.GamificationProfile, error)
}

// CatalogFacade exposes products and the download gate.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, cmd usecase.CreateProductCommand) (*model.Product, error)
	Download(ctx context.Context, actor model.Principal, productID int64) (string, error)
}

// CheckoutFacade covers both payment paths.
type CheckoutFacade interface {
	Checkout(ctx context.Context, cmd usecase.CheckoutCommand) (*model.CheckoutResult, error)
	ConfirmCheckout(ctx context.Context, cmd usecase.ConfirmCheckoutCommand) (*model.Order, error)
	SubmitSlip(ctx context.Context, cmd usecase.SubmitSlipCommand) (*model.Order, error)
}

// OrderFacade encapsulates order views and admin decisions.
type OrderFacade interface {
	MyOrders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, actor model.Principal, orderID int64) (*model.Order, error)
	AdminOrders(ctx context.Context, actor model.Principal, filter model.OrderFilter) ([]model.Order, error)
	Approve(ctx context.Context, cmd usecase.ApproveOrderCommand) (usecase.ApprovalOutcome, *model.Order, error)
	Reject(ctx context.Context, cmd usecase.RejectOrderCommand) (usecase.ApprovalOutcome, *model.Order, error)
}

// AccountFacade provides notifications and owned licenses.
type AccountFacade interface {
	Notifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	UnreadNotifications(ctx context.Context, userID int64) (int64, error)
	Licenses(ctx context.Context, userID int64) ([]model.OwnedLicense, error)
}

// HealthFacade reports readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	CatalogFacade
	CheckoutFacade
	OrderFacade
	AccountFacade
	HealthFacade
}
