package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/domain/model"
	"github.com/polkiloo/digistore/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/test/facadestub"
)

func newFacade() facadestub.StoreFacadeStub {
	return facadestub.StoreFacadeStub{
		PrincipalResolverStub: testhelpers.PrincipalResolverStub{Tokens: map[string]model.Principal{
			"user-token":  {UserID: 1, Role: model.RoleUser},
			"admin-token": {UserID: 99, Role: model.RoleAdmin},
		}},
		MyOrdersFn: func(context.Context, int64) ([]model.Order, error) {
			return []model.Order{{ID: 1, UserID: 1, Status: model.OrderStatusCompleted}}, nil
		},
	}
}

func newConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "slip.png"), []byte("png"), 0o600); err != nil {
		t.Fatalf("write slip: %v", err)
	}
	return &config.Config{SlipDir: dir, SlipBaseURL: "/static/slips", SlipMaxBytes: 1 << 20}
}

func do(engine *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	engine := Setup(newFacade(), newConfig(t), logger)

	body, _ := json.Marshal(map[string]string{"login": "user", "email": "u@example.com", "password": "pass"})
	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   []byte
		want   int
	}{
		{"health", http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{"register", http.MethodPost, "/api/user/register", "", body, http.StatusOK},
		{"products are public", http.MethodGet, "/api/products", "", nil, http.StatusOK},
		{"anonymous download", http.MethodGet, "/api/products/1/download", "", nil, http.StatusFound},
		{"profile needs auth", http.MethodGet, "/api/user/profile", "", nil, http.StatusUnauthorized},
		{"profile", http.MethodGet, "/api/user/profile", "user-token", nil, http.StatusOK},
		{"orders", http.MethodGet, "/api/orders", "user-token", nil, http.StatusOK},
		{"checkout needs auth", http.MethodPost, "/api/checkout", "", []byte(`{"product_id":1}`), http.StatusUnauthorized},
		{"checkout", http.MethodPost, "/api/checkout", "user-token", []byte(`{"product_id":1}`), http.StatusCreated},
		{"confirm", http.MethodGet, "/api/checkout/confirm?order_id=1&session_id=cs_1", "", nil, http.StatusOK},
		{"admin forbidden for users", http.MethodGet, "/api/admin/orders", "user-token", nil, http.StatusForbidden},
		{"admin orders", http.MethodGet, "/api/admin/orders", "admin-token", nil, http.StatusOK},
		{"approve", http.MethodPost, "/api/admin/orders/1/approve", "admin-token", nil, http.StatusOK},
		{"read all", http.MethodPost, "/api/user/notifications/read-all", "user-token", nil, http.StatusOK},
		{"slips are admin only", http.MethodGet, "/static/slips/slip.png", "user-token", nil, http.StatusForbidden},
		{"admin reads slip", http.MethodGet, "/static/slips/slip.png", "admin-token", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := do(engine, tc.method, tc.path, tc.token, tc.body); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestSetupMaintenanceMode(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := newConfig(t)
	cfg.Flags.MaintenanceMode = true
	engine := Setup(newFacade(), cfg, logger)

	if resp := do(engine, http.MethodGet, "/api/products", "", nil); resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 during maintenance, got %d", resp.Code)
	}
	if resp := do(engine, http.MethodGet, "/healthz", "", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected health to stay up, got %d", resp.Code)
	}
	if resp := do(engine, http.MethodGet, "/api/admin/orders", "admin-token", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected admin to stay up, got %d", resp.Code)
	}
}

var _ handlers.StoreFacade = facadestub.StoreFacadeStub{}
