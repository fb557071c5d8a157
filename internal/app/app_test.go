package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	testhelpers "github.com/polkiloo/digistore/internal/test"
	"github.com/polkiloo/digistore/internal/worker"
)

func newTestReconciler(interval time.Duration) *worker.CheckoutReconciler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return worker.NewCheckoutReconciler(&testhelpers.WorkerFacadeStub{}, interval, time.Minute, 1, 1, logger)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewCheckoutReconcilerUsesConfig(t *testing.T) {
	rec := newCheckoutReconciler(workerParams{
		Facade: &StoreFacade{},
		Config: &config.Config{ReconcileInterval: 15 * time.Second, ReconcileGrace: time.Minute, ReconcileBatch: 3, WorkerPoolSize: 4},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if !rec.Enabled() {
		t.Fatal("expected reconciler to be enabled by a positive interval")
	}

	rec = newCheckoutReconciler(workerParams{
		Facade: &StoreFacade{},
		Config: &config.Config{},
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	if rec.Enabled() {
		t.Fatal("expected reconciler to be disabled without interval")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	for _, interval := range []time.Duration{0, 10 * time.Millisecond} {
		recorder := &testhelpers.LifecycleRecorder{}
		shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
		logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
		server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
		cfg := &config.Config{ShutdownTimeout: 100 * time.Millisecond}

		registerLifecycle(lifecycleParams{
			Lifecycle:  recorder,
			Shutdowner: shutdowner,
			Logger:     logger,
			Server:     server,
			Worker:     newTestReconciler(interval),
			Health:     healthStub{},
			Config:     cfg,
		})

		if len(recorder.Hooks) != 3 {
			t.Fatalf("expected store, reconciler and http hooks, got %d", len(recorder.Hooks))
		}

		ctx, cancel := context.WithCancel(context.Background())
		if err := recorder.Start(ctx); err != nil {
			t.Fatalf("on start failed: %v", err)
		}
		// cancelling the start context must not stop the reconciler early
		cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = recorder.Stop(context.Background())
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("expected on stop to finish")
		}
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	server := &http.Server{Addr: "bad addr"}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     logger,
		Server:     server,
		Worker:     newTestReconciler(0),
		Health:     healthStub{},
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}
	if shutdowner.Calls() != 1 {
		t.Fatalf("expected one shutdown request, got %d", shutdowner.Calls())
	}

	_ = recorder.Stop(context.Background())
}

func TestRegisterLifecycleRequiresReadyStore(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{}
	var logs bytes.Buffer
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     slog.New(slog.NewJSONHandler(&logs, nil)),
		Server:     server,
		Worker:     newTestReconciler(0),
		Health:     healthStub{err: errors.New("connection refused")},
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	err := recorder.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "store not ready") {
		t.Fatalf("expected readiness error, got %v", err)
	}
	if strings.Contains(logs.String(), "starting digistore") {
		t.Fatal("http server must not start without a ready store")
	}
}

func TestRegisterLifecycleWarnsOnDefaultSecret(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var logs bytes.Buffer
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_FILE", "")
	cfg, err := config.Load(config.Args{"-d", "postgres://stub", "-g", "http://gateway"})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     slog.New(slog.NewJSONHandler(&logs, nil)),
		Server:     &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		Worker:     newTestReconciler(0),
		Health:     healthStub{},
		Config:     cfg,
	})

	if err := recorder.Hooks[0].OnStart(context.Background()); err != nil {
		t.Fatalf("store hook failed: %v", err)
	}
	if !strings.Contains(logs.String(), "default secret") {
		t.Fatalf("expected default secret warning, got %s", logs.String())
	}
}

func TestLifecycleRecorderOrdering(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	var events []string
	for _, name := range []string{"storage", "server"} {
		recorder.Append(fx.Hook{
			OnStart: func(context.Context) error { events = append(events, "start "+name); return nil },
			OnStop:  func(context.Context) error { events = append(events, "stop "+name); return nil },
		})
	}
	recorder.Append(fx.Hook{})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if err := recorder.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
	want := []string{"start storage", "start server", "stop server", "stop storage"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected hook order %v", events)
	}
}
