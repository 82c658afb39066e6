package main

import (
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Apply pending migrations, start the notification workers and serve the
HTTP API until interrupted.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		return oops.Code("APP_INIT_FAILED").Wrap(err)
	}

	if err := app.Run(cmd.Context()); err != nil {
		err = oops.Code("APP_RUN_FAILED").Wrap(err)
		logging.LogError(cmd.Context(), logger, "server stopped with error", err)
		return err
	}
	return nil
}
