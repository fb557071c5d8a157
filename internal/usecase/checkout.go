package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/adapter/gateway"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/domain/repository"
)

// CheckoutUseCase implements the hosted card checkout path.
type CheckoutUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	gateway  gateway.Client
	machine  *OrderUseCase
	settings Settings
	logger   *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	client gateway.Client,
	machine *OrderUseCase,
	settings Settings,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		products: products,
		orders:   orders,
		gateway:  client,
		machine:  machine,
		settings: settings,
		logger:   logger,
	}
}

func (u *CheckoutUseCase) confirmURL(orderID int64) string {
	return fmt.Sprintf("%s/api/checkout/confirm?order_id=%d", u.settings.PublicBaseURL, orderID)
}

// CreateCheckout creates a PENDING order priced from the catalogue and opens
// a gateway session for it. Zero-total orders skip the gateway.
func (u *CheckoutUseCase) CreateCheckout(ctx context.Context, cmd CheckoutCommand) (*model.CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	product, err := u.products.GetByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	total := product.Price
	if product.Free() {
		total = decimal.Zero
	}
	order, err := u.orders.Create(ctx, model.NewOrder{
		UserID:    cmd.UserID,
		ProductID: product.ID,
		Total:     total,
		Status:    model.OrderStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if total.IsZero() {
		return &model.CheckoutResult{OrderID: order.ID, RedirectURL: u.confirmURL(order.ID)}, nil
	}

	session, err := u.gateway.CreateSession(ctx, model.SessionRequest{
		Amount:     total,
		Currency:   u.settings.Currency,
		OrderID:    order.ID,
		SuccessURL: u.confirmURL(order.ID) + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  fmt.Sprintf("%s/orders/%d", u.settings.PublicBaseURL, order.ID),
	})
	if err != nil {
		u.logger.Error("checkout session failed", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		if _, derr := u.decline(ctx, order.ID); derr != nil {
			u.logger.Warn("decline after gateway failure", slog.Int64("order_id", order.ID), slog.String("error", derr.Error()))
		}
		return nil, err
	}
	if err := u.orders.SetSession(ctx, order.ID, session.ID); err != nil {
		u.logger.Error("store checkout session failed", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		if _, derr := u.decline(ctx, order.ID); derr != nil {
			u.logger.Warn("decline after session store failure", slog.Int64("order_id", order.ID), slog.String("error", derr.Error()))
		}
		return nil, err
	}

	return &model.CheckoutResult{OrderID: order.ID, RedirectURL: session.RedirectURL}, nil
}

// ConfirmCheckout completes the order only when the gateway reports it paid.
// Unpaid or expired sessions leave the order PENDING. Repeated calls on a
// completed order return it unchanged without side effects. The session id is
// the caller's only credential: orders it does not belong to are NotFound.
func (u *CheckoutUseCase) ConfirmCheckout(ctx context.Context, cmd ConfirmCheckoutCommand) (*model.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	order, err := u.orders.GetByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !sessionOwns(order, cmd.SessionID) {
		return nil, fmt.Errorf("checkout for order %d: %w", cmd.OrderID, domainErrors.ErrNotFound)
	}
	switch {
	case order.Status == model.OrderStatusCompleted:
		return order, nil
	case order.Status != model.OrderStatusPending:
		return nil, fmt.Errorf("order %d is %s: %w", order.ID, order.Status, domainErrors.ErrInvalidTransition)
	}

	if order.Total.IsZero() {
		return u.complete(ctx, order.ID, nil)
	}

	state, err := u.gateway.SessionStatus(ctx, cmd.SessionID)
	if err != nil {
		u.logger.Error("checkout status query failed", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		return nil, err
	}
	if state.Status != model.PaymentStatusPaid {
		u.logger.Info("checkout not settled", slog.Int64("order_id", order.ID), slog.String("payment_status", string(state.Status)))
		return order, nil
	}
	return u.complete(ctx, order.ID, paymentReference(state, cmd.SessionID))
}

// sessionOwns reports whether sessionID may act on order. Free hosted orders
// never open a gateway session and are confirmed by id alone.
func sessionOwns(order *model.Order, sessionID string) bool {
	if order.SlipURL == nil && order.SessionID == nil && order.Total.IsZero() {
		return true
	}
	return order.SessionID != nil && sessionID != "" && *order.SessionID == sessionID
}

func paymentReference(state *model.SessionState, sessionID string) *string {
	reference := state.PaymentID
	if reference == "" {
		reference = sessionID
	}
	return &reference
}

func (u *CheckoutUseCase) complete(ctx context.Context, orderID int64, transactionID *string) (*model.Order, error) {
	order, err := u.machine.Transition(ctx, orderID, model.OrderStatusCompleted, transactionID)
	if err == nil {
		return order, nil
	}
	if !isAlreadyProcessed(err) {
		return nil, err
	}
	// a concurrent confirmation may have won the race
	current, gerr := u.orders.GetByID(ctx, orderID)
	if gerr == nil && current.Status == model.OrderStatusCompleted {
		return current, nil
	}
	return nil, err
}

// Reconcile re-checks a stale PENDING checkout. Paid sessions complete, expired
// sessions decline to FAILED, unpaid ones are left for the next sweep.
func (u *CheckoutUseCase) Reconcile(ctx context.Context, order model.Order) (model.OrderStatus, error) {
	if order.SessionID == nil {
		return order.Status, nil
	}
	state, err := u.gateway.SessionStatus(ctx, *order.SessionID)
	if err != nil {
		return order.Status, err
	}

	switch state.Status {
	case model.PaymentStatusPaid:
		completed, err := u.complete(ctx, order.ID, paymentReference(state, *order.SessionID))
		if err != nil {
			return order.Status, err
		}
		return completed.Status, nil
	case model.PaymentStatusExpired:
		failed, err := u.decline(ctx, order.ID)
		if err != nil {
			if isAlreadyProcessed(err) {
				return order.Status, nil
			}
			return order.Status, err
		}
		return failed.Status, nil
	default:
		return order.Status, nil
	}
}

// decline fails a PENDING order on behalf of the system.
func (u *CheckoutUseCase) decline(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.machine.Transition(ctx, orderID, model.OrderStatusFailed, nil)
}

// PendingCheckouts claims stale hosted orders for reconciliation.
func (u *CheckoutUseCase) PendingCheckouts(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	return u.orders.SelectPendingCheckouts(ctx, grace, limit)
}
