package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/di"
	"github.com/polkiloo/digistore/internal/logger"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service. Flags are read by the service configuration,
for example:
  digistore serve -a :8080 -d postgres://localhost/digistore -g https://gateway.example`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app := fx.New(
				fx.WithLogger(logger.EventLogger),
				fx.Provide(func() context.Context { return ctx }),
				fx.Supply(config.Args(args)),
				di.Module(),
			)
			return run(ctx, app)
		},
	}
}

func run(ctx context.Context, app *fx.App) error {
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
