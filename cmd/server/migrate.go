package main

import (
	"github.com/dmitrijs2005/redditclone/internal/server"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		return oops.Code("APP_INIT_FAILED").Wrap(err)
	}
	defer app.Close()

	cmd.Println("Running migrations...")
	if err := app.Migrate(cmd.Context()); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
