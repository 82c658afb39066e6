package main

import (
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/config"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command of the server binary.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redditclone-server",
		Short: "redditclone authentication server",
		Long: `redditclone-server runs the authentication backend: signup with email
activation, login, JWT access tokens and refresh token rotation.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (YAML)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig reads the configuration for cmd and builds the logger it
// describes.
func loadConfig(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").With("config_file", configFile).Wrap(err)
	}
	return cfg, logging.New(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr()), nil
}
