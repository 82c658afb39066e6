package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/redditclone/internal/client/config"
	"github.com/spf13/cobra"
)

// appFactory builds the App once flags are parsed; tests replace it.
type appFactory func(ctx context.Context, c *config.Config) (*App, error)

// NewRootCmd creates the CLI's root command with all subcommands.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	return newRootCmd(cfg, NewApp)
}

func newRootCmd(cfg *config.Config, factory appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "redditclone",
		Short:        "Command-line client for the redditclone auth API",
		SilenceUsage: true,
	}
	config.RegisterFlags(cmd.PersistentFlags(), cfg)

	// run opens the App for a single command and closes it afterwards.
	run := func(fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			a, err := factory(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, a.Close()) }()

			a.out = cmd.OutOrStdout()
			return fn(cmd.Context(), a, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "signup",
			Short: "Create an account",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *App, _ []string) error {
				return a.Signup(ctx)
			}),
		},
		&cobra.Command{
			Use:   "verify <token>",
			Short: "Activate an account with the emailed token",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, a *App, args []string) error {
				return a.Verify(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "login [username]",
			Short: "Log in and remember the session",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(ctx context.Context, a *App, args []string) error {
				username := ""
				if len(args) == 1 {
					username = args[0]
				}
				return a.Login(ctx, username)
			}),
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Rotate the stored refresh token",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *App, _ []string) error {
				return a.Refresh(ctx)
			}),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the logged-in user",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *App, _ []string) error {
				return a.WhoAmI(ctx)
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Revoke the session",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *App, _ []string) error {
				return a.Logout(ctx)
			}),
		},
	)

	return cmd
}
