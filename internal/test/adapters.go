package test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/polkiloo/digistore/internal/adapter/blob"
	"github.com/polkiloo/digistore/internal/adapter/gateway"
	"github.com/polkiloo/digistore/internal/adapter/mail"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// GatewayStub answers checkout calls from configured data.
type GatewayStub struct {
	CreateFn func(context.Context, model.SessionRequest) (*model.CheckoutSession, error)
	StatusFn func(context.Context, string) (*model.SessionState, error)
	Statuses map[string]model.PaymentStatus
	Requests []model.SessionRequest
	mu       sync.Mutex
}

// CreateSession records the request and returns a session named after the order.
func (s *GatewayStub) CreateSession(ctx context.Context, req model.SessionRequest) (*model.CheckoutSession, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	id := fmt.Sprintf("cs_%d", req.OrderID)
	return &model.CheckoutSession{ID: id, RedirectURL: "https://pay.example/" + id}, nil
}

// SessionStatus returns the configured status, unpaid by default.
func (s *GatewayStub) SessionStatus(ctx context.Context, sessionID string) (*model.SessionState, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.Statuses[sessionID]
	if !ok {
		status = model.PaymentStatusUnpaid
	}
	state := &model.SessionState{ID: sessionID, Status: status}
	if status == model.PaymentStatusPaid {
		state.PaymentID = "pi_" + sessionID
	}
	return state, nil
}

// SetStatus changes what SessionStatus reports for the session.
func (s *GatewayStub) SetStatus(sessionID string, status model.PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Statuses == nil {
		s.Statuses = make(map[string]model.PaymentStatus)
	}
	s.Statuses[sessionID] = status
}

// MailSenderStub records sent messages.
type MailSenderStub struct {
	Err  error
	Sent []mail.Message
	mu   sync.Mutex
}

func (s *MailSenderStub) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, msg)
	return nil
}

// BlobStoreStub accepts any upload.
type BlobStoreStub struct {
	URL string
	Err error
}

func (s BlobStoreStub) Save(ctx context.Context, r io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	if s.URL != "" {
		return s.URL, nil
	}
	return "/static/slips/slip.png", nil
}

var (
	_ gateway.Client = (*GatewayStub)(nil)
	_ mail.Sender    = (*MailSenderStub)(nil)
	_ blob.Store     = BlobStoreStub{}
)
