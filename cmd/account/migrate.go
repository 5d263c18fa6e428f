package main

import (
	"log/slog"

	"account/config"
	"account/internal/errors"
	logs "account/internal/infra/log"
	"account/internal/infra/persistence/postgres"
	"account/migrations"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

// migrateCommand applies the embedded goose migrations to the configured database.
func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			logger, err := logs.New(logs.Params{Config: cfg})
			if err != nil {
				return err
			}

			db, err := postgres.Open(cfg, logger)
			if err != nil {
				return err
			}

			sqlDB, err := db.DB()
			if err != nil {
				return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
			}
			defer func() {
				if err := sqlDB.Close(); err != nil {
					logger.Warn("Could not close PostgreSQL connection", slog.Any("error", err))
				}
			}()

			goose.SetBaseFS(migrations.FS)
			if err := goose.SetDialect("postgres"); err != nil {
				return errors.Wrap(err, "could not set goose dialect to postgres")
			}
			if err := goose.UpContext(cmd.Context(), sqlDB, migrations.Dir); err != nil {
				return errors.Wrap(err, "could not migrate postgres")
			}

			logger.Info("Database migrated")

			return nil
		},
	}
}
