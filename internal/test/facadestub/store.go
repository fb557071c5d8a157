// Package facadestub holds HTTP facade stubs. It lives apart from package test
// because it depends on usecase, whose own tests import package test.
package facadestub

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/usecase"
)

// StoreFacadeStub provides controllable behaviour for every HTTP endpoint.
// Unset functions fall back to simple successful responses.
type StoreFacadeStub struct {
	test.PrincipalResolverStub

	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ProfileFn      func(context.Context, int64) (*model.User, *model.GamificationProfile, error)

	ProductsFn      func(context.Context) ([]model.Product, error)
	ProductFn       func(context.Context, int64) (*model.Product, error)
	CreateProductFn func(context.Context, usecase.CreateProductCommand) (*model.Product, error)
	DownloadFn      func(context.Context, model.Principal, int64) (string, error)

	CheckoutFn   func(context.Context, usecase.CheckoutCommand) (*model.CheckoutResult, error)
	ConfirmFn    func(context.Context, usecase.ConfirmCheckoutCommand) (*model.Order, error)
	SubmitSlipFn func(context.Context, usecase.SubmitSlipCommand) (*model.Order, error)

	MyOrdersFn    func(context.Context, int64) ([]model.Order, error)
	OrderFn       func(context.Context, model.Principal, int64) (*model.Order, error)
	AdminOrdersFn func(context.Context, model.Principal, model.OrderFilter) ([]model.Order, error)
	ApproveFn     func(context.Context, usecase.ApproveOrderCommand) (usecase.ApprovalOutcome, *model.Order, error)
	RejectFn      func(context.Context, usecase.RejectOrderCommand) (usecase.ApprovalOutcome, *model.Order, error)

	NotificationsFn func(context.Context, int64) ([]model.Notification, error)
	MarkReadFn      func(context.Context, int64, int64) error
	MarkAllReadFn   func(context.Context, int64) (int64, error)
	UnreadFn        func(context.Context, int64) (int64, error)
	LicensesFn      func(context.Context, int64) ([]model.OwnedLicense, error)

	HealthErr error
}

// Register returns token for successful registration scenarios.
func (s StoreFacadeStub) Register(ctx context.Context, login, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, email, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s StoreFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// Profile returns a level one user by default.
func (s StoreFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, *model.GamificationProfile, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID, Login: "buyer", Role: model.RoleUser},
		&model.GamificationProfile{UserID: userID, Level: 1}, nil
}

func (s StoreFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Title: "Ebook", Price: decimal.NewFromInt(500)}}, nil
}

func (s StoreFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Title: "Ebook", Price: decimal.NewFromInt(500)}, nil
}

func (s StoreFacadeStub) CreateProduct(ctx context.Context, cmd usecase.CreateProductCommand) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, cmd)
	}
	return &model.Product{ID: 7, Title: cmd.Title, Price: cmd.Price, IsFree: cmd.IsFree, FileURL: cmd.FileURL}, nil
}

func (s StoreFacadeStub) Download(ctx context.Context, actor model.Principal, productID int64) (string, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, actor, productID)
	}
	return "https://files.example/ebook.pdf", nil
}

func (s StoreFacadeStub) Checkout(ctx context.Context, cmd usecase.CheckoutCommand) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, cmd)
	}
	return &model.CheckoutResult{OrderID: 1, RedirectURL: "https://pay.example/cs_1"}, nil
}

func (s StoreFacadeStub) ConfirmCheckout(ctx context.Context, cmd usecase.ConfirmCheckoutCommand) (*model.Order, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, cmd)
	}
	return &model.Order{ID: cmd.OrderID, Status: model.OrderStatusCompleted}, nil
}

func (s StoreFacadeStub) SubmitSlip(ctx context.Context, cmd usecase.SubmitSlipCommand) (*model.Order, error) {
	if s.SubmitSlipFn != nil {
		return s.SubmitSlipFn(ctx, cmd)
	}
	return &model.Order{ID: 1, UserID: cmd.UserID, ProductID: cmd.ProductID, Total: cmd.ClaimedAmount, Status: model.OrderStatusWaitingVerify}, nil
}

func (s StoreFacadeStub) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, userID)
	}
	return nil, nil
}

func (s StoreFacadeStub) Order(ctx context.Context, actor model.Principal, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, UserID: actor.UserID, Status: model.OrderStatusPending}, nil
}

func (s StoreFacadeStub) AdminOrders(ctx context.Context, actor model.Principal, filter model.OrderFilter) ([]model.Order, error) {
	if s.AdminOrdersFn != nil {
		return s.AdminOrdersFn(ctx, actor, filter)
	}
	return nil, nil
}

func (s StoreFacadeStub) Approve(ctx context.Context, cmd usecase.ApproveOrderCommand) (usecase.ApprovalOutcome, *model.Order, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, cmd)
	}
	return usecase.OutcomeApproved, &model.Order{ID: cmd.OrderID, Status: model.OrderStatusCompleted}, nil
}

func (s StoreFacadeStub) Reject(ctx context.Context, cmd usecase.RejectOrderCommand) (usecase.ApprovalOutcome, *model.Order, error) {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, cmd)
	}
	return usecase.OutcomeRejected, &model.Order{ID: cmd.OrderID, Status: model.OrderStatusCancelled}, nil
}

func (s StoreFacadeStub) Notifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	if s.NotificationsFn != nil {
		return s.NotificationsFn(ctx, userID)
	}
	return nil, nil
}

func (s StoreFacadeStub) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	if s.MarkReadFn != nil {
		return s.MarkReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s StoreFacadeStub) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	if s.MarkAllReadFn != nil {
		return s.MarkAllReadFn(ctx, userID)
	}
	return 0, nil
}

func (s StoreFacadeStub) UnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	if s.UnreadFn != nil {
		return s.UnreadFn(ctx, userID)
	}
	return 0, nil
}

func (s StoreFacadeStub) Licenses(ctx context.Context, userID int64) ([]model.OwnedLicense, error) {
	if s.LicensesFn != nil {
		return s.LicensesFn(ctx, userID)
	}
	return nil, nil
}

// HealthCheck reports the configured health error.
func (s StoreFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
