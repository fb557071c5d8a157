package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
	"github.com/polkiloo/digistore/internal/di"
	"github.com/polkiloo/digistore/internal/usecase"
)

const adminPasswordEnv = "DIGISTORE_ADMIN_PASSWORD"

func seedAdminCmd() *cobra.Command {
	var login, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the administrator account or promote an existing login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(adminPasswordEnv)
			}
			if password == "" {
				return fmt.Errorf("password is required, pass --password or set %s", adminPasswordEnv)
			}

			ctx := cmd.Context()
			var auth *usecase.AuthUseCase
			app := fx.New(
				fx.NopLogger,
				fx.Provide(func() context.Context { return ctx }),
				fx.Supply(config.Args(nil)),
				di.Core(),
				fx.Populate(&auth),
			)
			if err := app.Start(ctx); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() { _ = app.Stop(context.Background()) }()

			user, created, err := auth.SeedAdmin(ctx, login, email, password)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			verb := "promoted"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s administrator %q (id %d)\n", verb, user.Login, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "administrator login")
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password, defaults to $"+adminPasswordEnv)
	_ = cmd.MarkFlagRequired("login")

	return cmd
}
