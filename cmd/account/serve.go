package main

import (
	"context"
	"log/slog"
	"os"

	"account/config"
	"account/internal/delivery"
	"account/internal/delivery/api"
	"account/internal/delivery/api/middleware"
	"account/internal/delivery/api/router/handler"
	"account/internal/domain/repository"
	"account/internal/domain/validation"
	"account/internal/errors"
	"account/internal/infra/auth"
	logs "account/internal/infra/log"
	"account/internal/infra/metrics"
	"account/internal/infra/persistence/memory"
	"account/internal/infra/persistence/postgres"
	"account/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			fx.New(
				injectInfra(),
				injectRepo(),
				injectService(),
				injectUsecase(),
				injectDelivery(),
				injectMiddleware(),
				injectHandler(),
				fx.Invoke(
					startServer,
				),
			).Run()
		},
	}
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.NewRecorder,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newUserRepository,
		),
	)
}

// newUserRepository selects the user store named by storage.driver.
func newUserRepository(params postgres.Params) (repository.UserRepository, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory user store, accounts will not survive a restart")

		return memory.NewUserRepository(), nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(params)
		if err != nil {
			return nil, err
		}

		return postgres.NewUserRepository(db), nil
	default:
		return nil, errors.Errorf("unsupported storage driver %q", params.Config.Storage.Driver)
	}
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			newCredentialRule,
		),
	)
}

func newCredentialRule(cfg *config.Config) *validation.CredentialRule {
	return validation.NewCredentialRule(cfg.PasswordPolicy.MinLength, cfg.PasswordPolicy.MaxLength)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
