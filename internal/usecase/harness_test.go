package usecase

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/domain/model"
	pkgAuth "github.com/polkiloo/digistore/internal/pkg/auth"
	testhelpers "github.com/polkiloo/digistore/internal/test"
)

var (
	paidProduct = model.Product{ID: 1, Title: "Icon pack", Price: decimal.RequireFromString("500"), FileURL: "https://cdn/icons.zip"}
	freeProduct = model.Product{ID: 2, Title: "Wallpaper", Price: decimal.Zero, FileURL: "https://cdn/wall.zip"}
	flagProduct = model.Product{ID: 3, Title: "Promo font", Price: decimal.RequireFromString("90"), IsFree: true, FileURL: "https://cdn/font.zip"}

	admin = model.Principal{UserID: 99, Role: model.RoleAdmin}
)

type harness struct {
	users         *testhelpers.UserRepositoryStub
	products      *testhelpers.ProductRepositoryStub
	orders        *testhelpers.OrderRepositoryStub
	licenses      *testhelpers.LicenseRepositoryStub
	notifications *testhelpers.NotificationRepositoryStub
	ledger        *testhelpers.LedgerRepositoryStub
	gateway       *testhelpers.GatewayStub
	mailer        *testhelpers.MailSenderStub
	blob          testhelpers.BlobStoreStub

	settings     Settings
	gamification *GamificationUseCase
	dispatcher   *Dispatcher
	machine      *OrderUseCase
	checkout     *CheckoutUseCase
	slips        *SlipUseCase
	approval     *ApprovalUseCase
	entitlement  *EntitlementUseCase
	auth         *AuthUseCase
	buyer        *model.User
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newStrategyStub() testhelpers.StrategyStub {
	return testhelpers.StrategyStub{
		IssueFn: func(userID int64) (string, error) {
			return fmt.Sprintf("token-%d", userID), nil
		},
		ParseFn: func(token string) (int64, error) {
			var id int64
			if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
				return 0, pkgAuth.ErrInvalidToken
			}
			return id, nil
		},
	}
}

type harnessOption func(*harness)

func withPriceCheck() harnessOption {
	return func(h *harness) { h.settings.SlipPriceCheck = true }
}

func withRegistrationClosed() harnessOption {
	return func(h *harness) { h.settings.Flags.RegistrationEnabled = false }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		users:         testhelpers.NewUserRepositoryStub(),
		products:      testhelpers.NewProductRepositoryStub(paidProduct, freeProduct, flagProduct),
		orders:        testhelpers.NewOrderRepositoryStub(),
		licenses:      testhelpers.NewLicenseRepositoryStub(),
		notifications: &testhelpers.NotificationRepositoryStub{},
		ledger:        testhelpers.NewLedgerRepositoryStub(),
		gateway:       &testhelpers.GatewayStub{},
		mailer:        &testhelpers.MailSenderStub{},
		settings: Settings{
			Currency:      "thb",
			PublicBaseURL: "http://shop.test",
			Flags:         config.Flags{RegistrationEnabled: true},
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	logger := testLogger()
	h.gamification = NewGamificationUseCase(h.ledger)
	h.gamification.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	h.dispatcher = NewDispatcher(h.products, h.users, h.licenses, h.notifications, h.mailer, h.gamification, h.settings, logger)
	h.machine = NewOrderUseCase(h.orders, h.dispatcher, logger)
	h.checkout = NewCheckoutUseCase(h.products, h.orders, h.gateway, h.machine, h.settings, logger)
	h.slips = NewSlipUseCase(h.products, h.orders, h.blob, logger)
	h.approval = NewApprovalUseCase(h.orders, h.products, h.machine, h.settings, logger)
	h.entitlement = NewEntitlementUseCase(h.products, h.orders, logger)
	h.auth = NewAuthUseCase(h.users, testhelpers.HasherStub{}, newStrategyStub(), h.gamification, h.settings, logger)

	buyer, err := h.users.Create(t.Context(), "buyer", "buyer@example.com", "hash:secret", model.RoleUser)
	if err != nil {
		t.Fatalf("seed buyer: %v", err)
	}
	h.buyer = buyer
	return h
}

func (h *harness) buyerPrincipal() model.Principal {
	return model.Principal{UserID: h.buyer.ID, Role: model.RoleUser}
}

func (h *harness) seedOrder(status model.OrderStatus, product model.Product, opts ...func(*model.Order)) *model.Order {
	o := model.Order{
		ID:        int64(len(h.orders.Orders) + 100),
		UserID:    h.buyer.ID,
		ProductID: product.ID,
		Total:     product.Price,
		Status:    status,
	}
	for _, opt := range opts {
		opt(&o)
	}
	h.orders.Orders[o.ID] = &o
	return &o
}

func withSlip(o *model.Order) {
	url := "/static/slips/proof.png"
	o.SlipURL = &url
}

func withTotal(total string) func(*model.Order) {
	return func(o *model.Order) { o.Total = decimal.RequireFromString(total) }
}

func withSession(id string) func(*model.Order) {
	return func(o *model.Order) { o.SessionID = &id }
}
