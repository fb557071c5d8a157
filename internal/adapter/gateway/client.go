package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from the payment gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Unwrap lets callers treat rate limiting as an external service failure.
func (e TooManyRequestsError) Unwrap() error {
	return domainErrors.ErrExternalService
}

// Client exposes hosted checkout operations of the payment gateway.
type Client interface {
	CreateSession(ctx context.Context, req model.SessionRequest) (*model.CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (*model.SessionState, error)
}

// HTTPClient implements Client via the gateway REST API.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type createSessionRequest struct {
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	ClientReferenceID string `json:"client_reference_id"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
}

// sessionResponse mirrors JSON payload from the gateway.
type sessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PaymentIntent string `json:"payment_intent"`
}

// NewHTTPClient creates HTTP gateway client with default timeout.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateSession opens a hosted checkout session for a pending order.
func (c *HTTPClient) CreateSession(ctx context.Context, req model.SessionRequest) (*model.CheckoutSession, error) {
	payload, err := json.Marshal(createSessionRequest{
		Amount:            MinorUnits(req.Amount),
		Currency:          req.Currency,
		ClientReferenceID: strconv.FormatInt(req.OrderID, 10),
		SuccessURL:        req.SuccessURL,
		CancelURL:         req.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", payload)
	if err != nil {
		return nil, err
	}
	if data.ID == "" || data.URL == "" {
		return nil, fmt.Errorf("%w: gateway returned incomplete session", domainErrors.ErrExternalService)
	}
	return &model.CheckoutSession{ID: data.ID, RedirectURL: data.URL}, nil
}

// SessionStatus queries the authoritative payment state of a session.
func (c *HTTPClient) SessionStatus(ctx context.Context, sessionID string) (*model.SessionState, error) {
	data, err := c.do(ctx, http.MethodGet, path.Join("/v1/checkout/sessions", url.PathEscape(sessionID)), nil)
	if err != nil {
		return nil, err
	}

	state := &model.SessionState{ID: data.ID, PaymentID: data.PaymentIntent}
	switch {
	case data.PaymentStatus == string(model.PaymentStatusPaid):
		state.Status = model.PaymentStatusPaid
	case data.Status == string(model.PaymentStatusExpired):
		state.Status = model.PaymentStatusExpired
	default:
		state.Status = model.PaymentStatusUnpaid
	}
	return state, nil
}

func (c *HTTPClient) do(ctx context.Context, method, p string, body []byte) (*sessionResponse, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, p)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrExternalService, err)
		}
		var data sessionResponse
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domainErrors.ErrExternalService, err)
		}
		return &data, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway request failed",
			slog.String("method", method),
			slog.String("path", p),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)))
		return nil, fmt.Errorf("%w: gateway %s", domainErrors.ErrExternalService, resp.Status)
	}
}

// MinorUnits converts a decimal amount into the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
