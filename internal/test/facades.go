package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/digistore/internal/domain/model"
)

// ReconcileCall stores information about ReconcileCheckout invocations.
type ReconcileCall struct {
	OrderID int64
	Status  model.OrderStatus
}

// WorkerFacadeStub mimics worker interactions with the store facade.
type WorkerFacadeStub struct {
	Batches     [][]model.Order
	PendingFn   func(context.Context, time.Duration, int) ([]model.Order, error)
	ReconcileFn func(context.Context, model.Order) (model.OrderStatus, error)
	Calls       []ReconcileCall
	Grace       time.Duration
	mu          sync.Mutex
	batchCalls  int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingCheckouts returns batches from configured queue.
func (s *WorkerFacadeStub) PendingCheckouts(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error) {
	s.mu.Lock()
	s.Grace = grace
	s.mu.Unlock()
	if s.PendingFn != nil {
		return s.PendingFn(ctx, grace, limit)
	}
	call := atomic.AddInt32(&s.batchCalls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReconcileCheckout records reconcile requests and completes the order by default.
func (s *WorkerFacadeStub) ReconcileCheckout(ctx context.Context, order model.Order) (model.OrderStatus, error) {
	status := model.OrderStatusCompleted
	var err error
	if s.ReconcileFn != nil {
		status, err = s.ReconcileFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, ReconcileCall{OrderID: order.ID, Status: status})
	return status, err
}
