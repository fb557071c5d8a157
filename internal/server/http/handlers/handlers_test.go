package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/dto"
	"github.com/polkiloo/digistore/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/test/facadestub"
	"github.com/polkiloo/digistore/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	buyer = model.Principal{UserID: 1, Role: model.RoleUser}
	admin = model.Principal{UserID: 99, Role: model.RoleAdmin}
)

func as(p model.Principal) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.PrincipalContextKey, p) }
}

func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", resp.Body.String(), err)
	}
	return v
}

func TestCurrentPrincipal(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentPrincipal(c); got.UserID != 0 || got.IsAdmin() {
		t.Fatalf("expected anonymous principal, got %+v", got)
	}

	c.Set(middleware.PrincipalContextKey, admin)
	if got := CurrentPrincipal(c); got != admin {
		t.Fatalf("expected admin principal, got %+v", got)
	}
	if got := CurrentUserID(c); got != 99 {
		t.Fatalf("expected 99, got %d", got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domainErrors.ErrNotFound:                                http.StatusNotFound,
		domainErrors.ErrInvalidTransition:                       http.StatusConflict,
		domainErrors.ErrAlreadyExists:                           http.StatusConflict,
		domainErrors.ErrUnauthorized:                            http.StatusUnauthorized,
		domainErrors.ErrInvalidCredentials:                      http.StatusUnauthorized,
		domainErrors.ErrForbidden:                               http.StatusForbidden,
		domainErrors.ErrRegistrationClosed:                      http.StatusForbidden,
		fmt.Errorf("%w: bad amount", domainErrors.ErrValidation): http.StatusUnprocessableEntity,
		fmt.Errorf("gateway: %w", domainErrors.ErrExternalService): http.StatusBadGateway,
		errors.New("boom"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Errorf("%v: expected %d, got %d", err, want, got)
		}
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	login, password := testhelpers.RandomCredentials()
	body, _ := json.Marshal(dto.RegisterRequest{Login: login, Email: "a@example.com", Password: password})
	facade := facadestub.StoreFacadeStub{RegisterFn: func(ctx context.Context, gotLogin, email, gotPassword string) (string, error) {
		if gotLogin != login || gotPassword != password || email != "a@example.com" {
			t.Fatalf("unexpected credentials passed to facade: %q %q %q", gotLogin, email, gotPassword)
		}
		return "token-1", nil
	}}
	resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(facade, facade).Register, nil, body, jsonHeaders())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer token-1" {
		t.Fatalf("expected auth header to be set, got %q", got)
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body []byte
		want int
	}{
		{"bad json", nil, []byte("{"), http.StatusBadRequest},
		{"empty credentials", domainErrors.ErrInvalidCredentials, []byte(`{}`), http.StatusBadRequest},
		{"duplicate", domainErrors.ErrAlreadyExists, []byte(`{"login":"a","password":"b"}`), http.StatusConflict},
		{"closed", domainErrors.ErrRegistrationClosed, []byte(`{"login":"a","password":"b"}`), http.StatusForbidden},
		{"internal", errors.New("db down"), []byte(`{"login":"a","password":"b"}`), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := facadestub.StoreFacadeStub{RegisterFn: func(context.Context, string, string, string) (string, error) {
				return "", tc.err
			}}
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(facade, facade).Register, nil, tc.body, jsonHeaders())
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	facade := facadestub.StoreFacadeStub{}
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade, facade).Login, nil, body, jsonHeaders())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	facade.AuthenticateFn = func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}
	resp = performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade, facade).Login, nil, body, jsonHeaders())
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade, facade).Login, nil, []byte("nope"), jsonHeaders())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAuthHandlerProfile(t *testing.T) {
	facade := facadestub.StoreFacadeStub{
		ProfileFn: func(ctx context.Context, userID int64) (*model.User, *model.GamificationProfile, error) {
			return &model.User{ID: userID, Login: "buyer", Role: model.RoleUser},
				&model.GamificationProfile{UserID: userID, XP: 1250, Level: 2}, nil
		},
		UnreadFn: func(context.Context, int64) (int64, error) { return 3, nil },
	}
	resp := performRequest(t, http.MethodGet, "/profile", "/profile", NewAuthHandler(facade, facade).Profile, as(buyer), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	profile := decode[dto.ProfileResponse](t, resp)
	if profile.Level != 2 || profile.NextLevelAt != 2000 || profile.UnreadNotifications != 3 {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestCatalogHandler(t *testing.T) {
	facade := facadestub.StoreFacadeStub{}
	h := NewCatalogHandler(facade)

	resp := performRequest(t, http.MethodGet, "/products", "/products", h.List, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	products := decode[[]dto.ProductResponse](t, resp)
	if len(products) != 1 || !products[0].Price.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected products %+v", products)
	}

	resp = performRequest(t, http.MethodGet, "/products/:id", "/products/4", h.Get, nil, nil, nil)
	if resp.Code != http.StatusOK || decode[dto.ProductResponse](t, resp).ID != 4 {
		t.Fatalf("unexpected product response %d %s", resp.Code, resp.Body.String())
	}

	resp = performRequest(t, http.MethodGet, "/products/:id", "/products/abc", h.Get, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.Code)
	}

	missing := NewCatalogHandler(facadestub.StoreFacadeStub{ProductFn: func(context.Context, int64) (*model.Product, error) {
		return nil, domainErrors.ErrNotFound
	}})
	resp = performRequest(t, http.MethodGet, "/products/:id", "/products/4", missing.Get, nil, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCatalogHandlerDownload(t *testing.T) {
	var gotActor model.Principal
	facade := facadestub.StoreFacadeStub{DownloadFn: func(ctx context.Context, actor model.Principal, productID int64) (string, error) {
		gotActor = actor
		if actor.UserID == 0 {
			return "", domainErrors.ErrForbidden
		}
		return "https://files.example/1.pdf", nil
	}}
	h := NewCatalogHandler(facade)

	resp := performRequest(t, http.MethodGet, "/products/:id/download", "/products/1/download", h.Download, as(buyer), nil, nil)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "https://files.example/1.pdf" {
		t.Fatalf("unexpected location %q", loc)
	}
	if gotActor != buyer {
		t.Fatalf("expected buyer to be forwarded, got %+v", gotActor)
	}

	resp = performRequest(t, http.MethodGet, "/products/:id/download", "/products/1/download", h.Download, nil, nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous caller, got %d", resp.Code)
	}
}

func TestCatalogHandlerCreate(t *testing.T) {
	var got usecase.CreateProductCommand
	facade := facadestub.StoreFacadeStub{CreateProductFn: func(ctx context.Context, cmd usecase.CreateProductCommand) (*model.Product, error) {
		got = cmd
		return &model.Product{ID: 3, Title: cmd.Title, Price: cmd.Price}, nil
	}}
	body := []byte(`{"title":"Course","price":"129.50","file_url":"https://files.example/c.zip"}`)
	resp := performRequest(t, http.MethodPost, "/admin/products", "/admin/products", NewCatalogHandler(facade).Create, as(admin), body, jsonHeaders())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if got.Actor != admin || !got.Price.Equal(decimal.RequireFromString("129.50")) {
		t.Fatalf("unexpected command %+v", got)
	}
}

func TestCheckoutHandlerCreate(t *testing.T) {
	var got usecase.CheckoutCommand
	facade := facadestub.StoreFacadeStub{CheckoutFn: func(ctx context.Context, cmd usecase.CheckoutCommand) (*model.CheckoutResult, error) {
		got = cmd
		return &model.CheckoutResult{OrderID: 11, RedirectURL: "https://pay.example/cs_11"}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(facade).Create, as(buyer), []byte(`{"product_id":1}`), jsonHeaders())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	result := decode[dto.CheckoutResponse](t, resp)
	if result.OrderID != 11 || result.RedirectURL != "https://pay.example/cs_11" {
		t.Fatalf("unexpected checkout response %+v", result)
	}
	if got.UserID != buyer.UserID || got.ProductID != 1 {
		t.Fatalf("unexpected command %+v", got)
	}

	failing := facadestub.StoreFacadeStub{CheckoutFn: func(context.Context, usecase.CheckoutCommand) (*model.CheckoutResult, error) {
		return nil, fmt.Errorf("create session: %w", domainErrors.ErrExternalService)
	}}
	resp = performRequest(t, http.MethodPost, "/checkout", "/checkout", NewCheckoutHandler(failing).Create, as(buyer), []byte(`{"product_id":1}`), jsonHeaders())
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestCheckoutHandlerConfirm(t *testing.T) {
	status := model.OrderStatusPending
	var got usecase.ConfirmCheckoutCommand
	facade := facadestub.StoreFacadeStub{ConfirmFn: func(ctx context.Context, cmd usecase.ConfirmCheckoutCommand) (*model.Order, error) {
		got = cmd
		return &model.Order{ID: cmd.OrderID, Status: status}, nil
	}}
	h := NewCheckoutHandler(facade)

	resp := performRequest(t, http.MethodGet, "/confirm", "/confirm?order_id=5&session_id=cs_5", h.Confirm, nil, nil, nil)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 while unpaid, got %d", resp.Code)
	}
	if got.OrderID != 5 || got.SessionID != "cs_5" {
		t.Fatalf("unexpected command %+v", got)
	}

	status = model.OrderStatusCompleted
	resp = performRequest(t, http.MethodGet, "/confirm", "/confirm?order_id=5&session_id=cs_5", h.Confirm, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 once paid, got %d", resp.Code)
	}
	if order := decode[dto.OrderResponse](t, resp); order.StatusLabel != "completed" {
		t.Fatalf("unexpected label %q", order.StatusLabel)
	}

	resp = performRequest(t, http.MethodGet, "/confirm", "/confirm?session_id=cs_5", h.Confirm, nil, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without order id, got %d", resp.Code)
	}
}

func slipForm(t *testing.T, fields map[string]string, file []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(slipFormField, "slip.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(file)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return buf.Bytes(), w.FormDataContentType()
}

func TestCheckoutHandlerSubmitSlip(t *testing.T) {
	var proof []byte
	var got usecase.SubmitSlipCommand
	facade := facadestub.StoreFacadeStub{SubmitSlipFn: func(ctx context.Context, cmd usecase.SubmitSlipCommand) (*model.Order, error) {
		got = cmd
		proof, _ = io.ReadAll(cmd.Proof)
		return &model.Order{ID: 8, UserID: cmd.UserID, Total: cmd.ClaimedAmount, Status: model.OrderStatusWaitingVerify}, nil
	}}
	h := NewCheckoutHandler(facade)

	body, contentType := slipForm(t, map[string]string{"product_id": "1", "claimed_amount": "500.00"}, []byte("png-bytes"))
	resp := performRequest(t, http.MethodPost, "/slip", "/slip", h.SubmitSlip, as(buyer), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if string(proof) != "png-bytes" || got.UserID != buyer.UserID || !got.ClaimedAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected command %+v (proof %q)", got, proof)
	}
	if order := decode[dto.OrderResponse](t, resp); order.StatusLabel != "awaiting verification" {
		t.Fatalf("unexpected label %q", order.StatusLabel)
	}

	cases := []struct {
		name   string
		fields map[string]string
		file   []byte
	}{
		{"missing product", map[string]string{"claimed_amount": "1"}, []byte("x")},
		{"bad amount", map[string]string{"product_id": "1", "claimed_amount": "lots"}, []byte("x")},
		{"missing file", map[string]string{"product_id": "1", "claimed_amount": "1"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := slipForm(t, tc.fields, tc.file)
			resp := performRequest(t, http.MethodPost, "/slip", "/slip", h.SubmitSlip, as(buyer), body, map[string]string{"Content-Type": contentType})
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}

	rejecting := NewCheckoutHandler(facadestub.StoreFacadeStub{SubmitSlipFn: func(context.Context, usecase.SubmitSlipCommand) (*model.Order, error) {
		return nil, fmt.Errorf("%w: unsupported slip type", domainErrors.ErrValidation)
	}})
	body, contentType = slipForm(t, map[string]string{"product_id": "1", "claimed_amount": "1"}, []byte("text"))
	resp = performRequest(t, http.MethodPost, "/slip", "/slip", rejecting.SubmitSlip, as(buyer), body, map[string]string{"Content-Type": contentType})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	h := NewOrderHandler(facadestub.StoreFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", h.List, as(buyer), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 without orders, got %d", resp.Code)
	}

	h = NewOrderHandler(facadestub.StoreFacadeStub{MyOrdersFn: func(ctx context.Context, userID int64) ([]model.Order, error) {
		return []model.Order{{ID: 1, UserID: userID, Status: model.OrderStatusPending}}, nil
	}})
	resp = performRequest(t, http.MethodGet, "/orders", "/orders", h.List, as(buyer), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	orders := decode[[]dto.OrderResponse](t, resp)
	if len(orders) != 1 || orders[0].StatusLabel != "awaiting payment" || len(orders[0].Actions) != 0 {
		t.Fatalf("unexpected orders %+v", orders)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	h := NewOrderHandler(facadestub.StoreFacadeStub{OrderFn: func(ctx context.Context, actor model.Principal, id int64) (*model.Order, error) {
		if actor.UserID != 1 && !actor.IsAdmin() {
			return nil, domainErrors.ErrNotFound
		}
		return &model.Order{ID: id, UserID: 1, Status: model.OrderStatusWaitingVerify}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/3", h.Get, as(admin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if order := decode[dto.OrderResponse](t, resp); len(order.Actions) != 2 {
		t.Fatalf("expected admin actions, got %+v", order.Actions)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/3", h.Get, as(model.Principal{UserID: 2, Role: model.RoleUser}), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", resp.Code)
	}
}

func TestOrderHandlerAdminList(t *testing.T) {
	var got model.OrderFilter
	h := NewOrderHandler(facadestub.StoreFacadeStub{AdminOrdersFn: func(ctx context.Context, actor model.Principal, filter model.OrderFilter) ([]model.Order, error) {
		got = filter
		return []model.Order{
			{ID: 1, Status: model.OrderStatusWaitingVerify},
			{ID: 2, Status: model.OrderStatusCompleted},
		}, nil
	}})

	resp := performRequest(t, http.MethodGet, "/admin/orders", "/admin/orders?status=WAITING_VERIFY&limit=20", h.AdminList, as(admin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.Status != model.OrderStatusWaitingVerify || got.Limit != 20 {
		t.Fatalf("unexpected filter %+v", got)
	}
	orders := decode[[]dto.OrderResponse](t, resp)
	if len(orders[0].Actions) != 2 || len(orders[1].Actions) != 0 {
		t.Fatalf("actions must only be offered for non-terminal orders: %+v", orders)
	}

	resp = performRequest(t, http.MethodGet, "/admin/orders", "/admin/orders?limit=x", h.AdminList, as(admin), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.Code)
	}
}

func TestOrderHandlerApprove(t *testing.T) {
	cases := []struct {
		name    string
		outcome usecase.ApprovalOutcome
		order   *model.Order
		err     error
		want    int
	}{
		{"approved", usecase.OutcomeApproved, &model.Order{ID: 1, Status: model.OrderStatusCompleted}, nil, http.StatusOK},
		{"already processed", usecase.OutcomeAlreadyProcessed, nil, nil, http.StatusOK},
		{"forbidden", "", nil, domainErrors.ErrForbidden, http.StatusForbidden},
		{"missing", "", nil, domainErrors.ErrNotFound, http.StatusNotFound},
		{"unjustified", "", nil, domainErrors.ErrValidation, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewOrderHandler(facadestub.StoreFacadeStub{ApproveFn: func(context.Context, usecase.ApproveOrderCommand) (usecase.ApprovalOutcome, *model.Order, error) {
				return tc.outcome, tc.order, tc.err
			}})
			resp := performRequest(t, http.MethodPost, "/orders/:id/approve", "/orders/1/approve", h.Approve, as(admin), nil, nil)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
			if tc.err == nil {
				if got := decode[dto.ApprovalResponse](t, resp); got.Outcome != string(tc.outcome) {
					t.Fatalf("expected outcome %s, got %s", tc.outcome, got.Outcome)
				}
			}
		})
	}
}

func TestOrderHandlerReject(t *testing.T) {
	h := NewOrderHandler(facadestub.StoreFacadeStub{})
	resp := performRequest(t, http.MethodPost, "/orders/:id/reject", "/orders/4/reject", h.Reject, as(admin), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	got := decode[dto.ApprovalResponse](t, resp)
	if got.Outcome != string(usecase.OutcomeRejected) || got.Order == nil || got.Order.StatusLabel != "rejected" {
		t.Fatalf("unexpected reject response %+v", got)
	}
}

func TestAccountHandler(t *testing.T) {
	link := "/orders/1"
	facade := facadestub.StoreFacadeStub{
		NotificationsFn: func(context.Context, int64) ([]model.Notification, error) {
			return []model.Notification{{ID: 1, Message: "Your order is ready", Link: &link}}, nil
		},
		MarkReadFn: func(ctx context.Context, userID, id int64) error {
			if id != 1 {
				return domainErrors.ErrNotFound
			}
			return nil
		},
		MarkAllReadFn: func(context.Context, int64) (int64, error) { return 4, nil },
		LicensesFn: func(context.Context, int64) ([]model.OwnedLicense, error) {
			return []model.OwnedLicense{{Key: "ABCD", OrderID: 1, ProductID: 1, ProductTitle: "Ebook"}}, nil
		},
	}
	h := NewAccountHandler(facade)

	resp := performRequest(t, http.MethodGet, "/notifications", "/notifications", h.Notifications, as(buyer), nil, nil)
	if items := decode[[]dto.NotificationResponse](t, resp); len(items) != 1 || *items[0].Link != link {
		t.Fatalf("unexpected notifications %+v", items)
	}

	resp = performRequest(t, http.MethodPost, "/notifications/:id/read", "/notifications/1/read", h.MarkRead, as(buyer), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/notifications/:id/read", "/notifications/2/read", h.MarkRead, as(buyer), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/notifications/read-all", "/notifications/read-all", h.MarkAllRead, as(buyer), nil, nil)
	if got := decode[dto.MarkAllReadResponse](t, resp); got.Updated != 4 {
		t.Fatalf("unexpected read-all response %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/licenses", "/licenses", h.Licenses, as(buyer), nil, nil)
	if licenses := decode[[]dto.LicenseResponse](t, resp); len(licenses) != 1 || licenses[0].Key != "ABCD" {
		t.Fatalf("unexpected licenses %+v", licenses)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(facadestub.StoreFacadeStub{}).Check, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(facadestub.StoreFacadeStub{HealthErr: errors.New("down")}).Check, nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
