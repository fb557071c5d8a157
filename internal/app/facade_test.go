package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/config"
	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	testhelpers "github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/usecase"
)

type healthStub struct{ err error }

func (h healthStub) HealthCheck(context.Context) error { return h.err }

type facadeFixture struct {
	facade        *StoreFacade
	users         *testhelpers.UserRepositoryStub
	orders        *testhelpers.OrderRepositoryStub
	licenses      *testhelpers.LicenseRepositoryStub
	notifications *testhelpers.NotificationRepositoryStub
	gateway       *testhelpers.GatewayStub
}

var ebook = model.Product{ID: 1, Title: "Go Patterns", Price: decimal.NewFromInt(500), FileURL: "https://files.example/go.pdf"}

func newFacade(t *testing.T) facadeFixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	settings := usecase.Settings{
		Currency:      "thb",
		PublicBaseURL: "http://shop.test",
		Flags:         config.Flags{RegistrationEnabled: true},
	}

	fix := facadeFixture{
		users:         testhelpers.NewUserRepositoryStub(),
		orders:        testhelpers.NewOrderRepositoryStub(),
		licenses:      testhelpers.NewLicenseRepositoryStub(),
		notifications: &testhelpers.NotificationRepositoryStub{},
		gateway:       &testhelpers.GatewayStub{},
	}
	products := testhelpers.NewProductRepositoryStub(ebook)
	ledger := testhelpers.NewLedgerRepositoryStub()

	gamification := usecase.NewGamificationUseCase(ledger)
	dispatcher := usecase.NewDispatcher(products, fix.users, fix.licenses, fix.notifications, &testhelpers.MailSenderStub{}, gamification, settings, logger)
	machine := usecase.NewOrderUseCase(fix.orders, dispatcher, logger)

	fix.facade = NewStoreFacade(UseCases{
		Auth:          usecase.NewAuthUseCase(fix.users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}, gamification, settings, logger),
		Gamification:  gamification,
		Orders:        machine,
		Checkout:      usecase.NewCheckoutUseCase(products, fix.orders, fix.gateway, machine, settings, logger),
		Slips:         usecase.NewSlipUseCase(products, fix.orders, testhelpers.BlobStoreStub{}, logger),
		Approvals:     usecase.NewApprovalUseCase(fix.orders, products, machine, settings, logger),
		Entitlements:  usecase.NewEntitlementUseCase(products, fix.orders, logger),
		Catalog:       usecase.NewCatalogUseCase(products),
		Notifications: usecase.NewNotificationUseCase(fix.notifications),
		Licenses:      usecase.NewLicenseUseCase(fix.licenses),
	}, healthStub{})
	return fix
}

func TestStoreFacadeAuth(t *testing.T) {
	f := newFacade(t)
	ctx := t.Context()

	token, err := f.facade.Register(ctx, "alice", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}
	if _, err := f.facade.Register(ctx, "alice", "alice@example.com", "secret"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected duplicate login error, got %v", err)
	}
	if _, err := f.facade.Authenticate(ctx, "alice", "secret"); err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}

	id, err := f.facade.ParseToken("anything")
	if err != nil || id != 1 {
		t.Fatalf("unexpected parse result %d, %v", id, err)
	}
	principal, err := f.facade.Principal(ctx, id)
	if err != nil {
		t.Fatalf("principal returned error: %v", err)
	}
	if principal.Role != model.RoleUser {
		t.Fatalf("expected user role, got %s", principal.Role)
	}

	user, profile, err := f.facade.Profile(ctx, id)
	if err != nil {
		t.Fatalf("profile returned error: %v", err)
	}
	if user.Login != "alice" {
		t.Fatalf("unexpected login %q", user.Login)
	}
	if profile.XP != model.XPForDailyLogin {
		t.Fatalf("expected daily login xp, got %d", profile.XP)
	}
	if _, _, err := f.facade.Profile(ctx, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}

func TestStoreFacadeHostedCheckoutReconciles(t *testing.T) {
	f := newFacade(t)
	ctx := t.Context()
	user, err := f.users.Create(ctx, "bob", "bob@example.com", "hash:pw", model.RoleUser)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	result, err := f.facade.Checkout(ctx, usecase.CheckoutCommand{UserID: user.ID, ProductID: ebook.ID})
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if !strings.HasPrefix(result.RedirectURL, "https://pay.example/") {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}

	pending, err := f.facade.PendingCheckouts(ctx, 0, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected one pending checkout, got %d, %v", len(pending), err)
	}

	status, err := f.facade.ReconcileCheckout(ctx, pending[0])
	if err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}
	if status != model.OrderStatusPending {
		t.Fatalf("unpaid session must stay pending, got %s", status)
	}

	f.gateway.SetStatus(*pending[0].SessionID, model.PaymentStatusPaid)
	status, err = f.facade.ReconcileCheckout(ctx, pending[0])
	if err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}
	if status != model.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", status)
	}

	licenses, err := f.facade.Licenses(ctx, user.ID)
	if err != nil {
		t.Fatalf("licenses returned error: %v", err)
	}
	if f.licenses.Issued != 1 {
		t.Fatalf("expected one issued license, got %d (listed %d)", f.licenses.Issued, len(licenses))
	}

	url, err := f.facade.Download(ctx, model.Principal{UserID: user.ID, Role: model.RoleUser}, ebook.ID)
	if err != nil {
		t.Fatalf("download returned error: %v", err)
	}
	if url != ebook.FileURL {
		t.Fatalf("unexpected download url %q", url)
	}

	unread, err := f.facade.UnreadNotifications(ctx, user.ID)
	if err != nil || unread != 1 {
		t.Fatalf("expected one unread notification, got %d, %v", unread, err)
	}
}

func TestStoreFacadeSlipApproval(t *testing.T) {
	f := newFacade(t)
	ctx := t.Context()
	buyer, _ := f.users.Create(ctx, "carol", "carol@example.com", "hash:pw", model.RoleUser)
	admin := model.Principal{UserID: 99, Role: model.RoleAdmin}

	order, err := f.facade.SubmitSlip(ctx, usecase.SubmitSlipCommand{
		UserID:        buyer.ID,
		ProductID:     ebook.ID,
		ClaimedAmount: decimal.NewFromInt(500),
		Proof:         strings.NewReader("slip"),
	})
	if err != nil {
		t.Fatalf("submit slip returned error: %v", err)
	}
	if order.Status != model.OrderStatusWaitingVerify {
		t.Fatalf("expected waiting verify, got %s", order.Status)
	}

	queue, err := f.facade.AdminOrders(ctx, admin, model.OrderFilter{Status: model.OrderStatusWaitingVerify})
	if err != nil || len(queue) != 1 {
		t.Fatalf("expected one order in verification queue, got %d, %v", len(queue), err)
	}

	outcome, approved, err := f.facade.Approve(ctx, usecase.ApproveOrderCommand{OrderID: order.ID, Actor: admin})
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if outcome != usecase.OutcomeApproved || approved.Status != model.OrderStatusCompleted {
		t.Fatalf("unexpected approval result %s %s", outcome, approved.Status)
	}

	outcome, _, err = f.facade.Reject(ctx, usecase.RejectOrderCommand{OrderID: order.ID, Actor: admin})
	if err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if outcome != usecase.OutcomeAlreadyProcessed {
		t.Fatalf("expected already processed, got %s", outcome)
	}

	mine, err := f.facade.MyOrders(ctx, buyer.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected one order, got %d, %v", len(mine), err)
	}
	got, err := f.facade.Order(ctx, model.Principal{UserID: buyer.ID, Role: model.RoleUser}, order.ID)
	if err != nil || got.Status != model.OrderStatusCompleted {
		t.Fatalf("unexpected order %+v, %v", got, err)
	}
}

func TestStoreFacadeCatalogAndNotifications(t *testing.T) {
	f := newFacade(t)
	ctx := t.Context()
	admin := model.Principal{UserID: 99, Role: model.RoleAdmin}

	created, err := f.facade.CreateProduct(ctx, usecase.CreateProductCommand{
		Title:   "Starter Pack",
		Price:   decimal.Zero,
		IsFree:  true,
		FileURL: "https://files.example/starter.zip",
		Actor:   admin,
	})
	if err != nil {
		t.Fatalf("create product returned error: %v", err)
	}
	products, err := f.facade.Products(ctx)
	if err != nil || len(products) != 2 {
		t.Fatalf("expected two products, got %d, %v", len(products), err)
	}
	if p, err := f.facade.Product(ctx, created.ID); err != nil || p.Title != "Starter Pack" {
		t.Fatalf("unexpected product %+v, %v", p, err)
	}

	if _, err := f.notifications.Create(ctx, 5, "hello", nil); err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	items, err := f.facade.Notifications(ctx, 5)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one notification, got %d, %v", len(items), err)
	}
	if err := f.facade.MarkNotificationRead(ctx, 5, items[0].ID); err != nil {
		t.Fatalf("mark read returned error: %v", err)
	}
	if n, err := f.facade.MarkAllNotificationsRead(ctx, 5); err != nil || n != 0 {
		t.Fatalf("expected nothing left to mark, got %d, %v", n, err)
	}
}

func TestStoreFacadeHealthCheck(t *testing.T) {
	f := newFacade(t)
	if err := f.facade.HealthCheck(t.Context()); err != nil {
		t.Fatalf("unexpected health error: %v", err)
	}
	failing := NewStoreFacade(UseCases{}, healthStub{err: errors.New("down")})
	if err := failing.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health error")
	}
}
