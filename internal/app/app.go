package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStoreFacade,
		newHTTPServer,
		newCheckoutReconciler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *StoreFacade
	Config *config.Config
	Logger *slog.Logger
}

func newCheckoutReconciler(p workerParams) *worker.CheckoutReconciler {
	return worker.NewCheckoutReconciler(
		p.Facade,
		p.Config.ReconcileInterval,
		p.Config.ReconcileGrace,
		p.Config.ReconcileBatch,
		p.Config.WorkerPoolSize,
		p.Logger.With(slog.String("component", "reconciler")),
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.CheckoutReconciler
	Health     HealthChecker
	Config     *config.Config
}

// registerLifecycle orders startup as store check, reconciler, HTTP. fx stops
// hooks in reverse, so requests stop before the reconciler does.
func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Health.HealthCheck(ctx); err != nil {
				return fmt.Errorf("store not ready: %w", err)
			}
			if p.Config.DefaultSecret() {
				p.Logger.Warn("auth tokens are signed with the default secret, set JWT_SECRET")
			}
			if p.Config.Flags.MaintenanceMode {
				p.Logger.Warn("maintenance mode is on, customer traffic is rejected")
			}
			return nil
		},
	})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// the start context ends once fx finishes starting, the worker must outlive it
			p.Worker.Start(context.WithoutCancel(ctx))
			return nil
		},
		OnStop: func(context.Context) error {
			p.Worker.Stop()
			return nil
		},
	})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting digistore",
				slog.String("addr", p.Server.Addr),
				slog.Bool("reconciler", p.Worker.Enabled()),
				slog.Bool("registration", p.Config.Flags.RegistrationEnabled),
			)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("digistore stopped")
			return nil
		},
	})
}
