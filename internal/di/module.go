package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/adapter/blob"
	"github.com/polkiloo/digistore/internal/adapter/gateway"
	"github.com/polkiloo/digistore/internal/adapter/mail"
	"github.com/polkiloo/digistore/internal/app"
	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/logger"
	"github.com/polkiloo/digistore/internal/pkg/auth"
	"github.com/polkiloo/digistore/internal/server/http/handlers"
	"github.com/polkiloo/digistore/internal/server/http/router"
	"github.com/polkiloo/digistore/internal/storage/postgres"
	"github.com/polkiloo/digistore/internal/usecase"
)

// Core wires everything below the transport layer. The admin CLI runs on it alone.
func Core(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		mail.Module,
		blob.Module,
		usecase.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

// Module wires the full HTTP service.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		Core(),
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
