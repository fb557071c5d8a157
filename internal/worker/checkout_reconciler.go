package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/digistore/internal/adapter/gateway"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// CheckoutFacade exposes the subset of application functionality required by the worker.
type CheckoutFacade interface {
	PendingCheckouts(ctx context.Context, grace time.Duration, limit int) ([]model.Order, error)
	ReconcileCheckout(ctx context.Context, order model.Order) (model.OrderStatus, error)
}

// CheckoutReconciler periodically re-checks stale hosted checkouts against the
// gateway, for buyers who paid but never came back through the return redirect.
type CheckoutReconciler struct {
	facade       CheckoutFacade
	pollInterval time.Duration
	grace        time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex

	// unix nanos until which no worker may call the gateway
	resumeAt atomic.Int64
}

// NewCheckoutReconciler constructs the reconciler worker pool.
// A non-positive pollInterval disables it.
func NewCheckoutReconciler(facade CheckoutFacade, pollInterval, grace time.Duration, batchSize, workers int, logger *slog.Logger) *CheckoutReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &CheckoutReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		grace:        grace,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Order, batchSize*workers),
	}
}

// Enabled reports whether Start launches anything.
func (p *CheckoutReconciler) Enabled() bool {
	return p.pollInterval > 0
}

// Start launches background processing.
func (p *CheckoutReconciler) Start(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Info("checkout reconciler disabled")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *CheckoutReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *CheckoutReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *CheckoutReconciler) fetchAndDispatch(ctx context.Context) {
	if p.pausedFor() > 0 {
		return
	}
	orders, err := p.facade.PendingCheckouts(ctx, p.grace, p.batchSize)
	if err != nil {
		p.logger.Error("fetch pending checkouts failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- order:
		}
	}
}

func (p *CheckoutReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-p.jobs:
			if !ok {
				return
			}
			if !p.waitResume(ctx) {
				return
			}
			p.handleOrder(ctx, order)
		}
	}
}

func (p *CheckoutReconciler) handleOrder(ctx context.Context, order model.Order) {
	status, err := p.facade.ReconcileCheckout(ctx, order)
	if err != nil {
		var limited gateway.TooManyRequestsError
		if errors.As(err, &limited) {
			p.logger.Warn("gateway rate limited, pausing reconciler", slog.Duration("retry_after", limited.RetryAfter))
			p.pause(limited.RetryAfter)
			return
		}
		p.logger.Error("reconcile checkout failed", slog.Int64("order_id", order.ID), slog.String("error", err.Error()))
		return
	}
	if status != order.Status {
		p.logger.Info("checkout reconciled", slog.Int64("order_id", order.ID), slog.String("status", string(status)))
	}
}

// pause stops every worker and the dispatcher for d. Overlapping pauses keep
// the later deadline.
func (p *CheckoutReconciler) pause(d time.Duration) {
	until := time.Now().Add(d).UnixNano()
	for {
		current := p.resumeAt.Load()
		if current >= until || p.resumeAt.CompareAndSwap(current, until) {
			return
		}
	}
}

func (p *CheckoutReconciler) pausedFor() time.Duration {
	return time.Until(time.Unix(0, p.resumeAt.Load()))
}

// waitResume blocks while the reconciler is paused. It reports false when ctx
// ends first.
func (p *CheckoutReconciler) waitResume(ctx context.Context) bool {
	for {
		d := p.pausedFor()
		if d <= 0 {
			return true
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
