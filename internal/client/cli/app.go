package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/redditclone/internal/client/client"
	"github.com/dmitrijs2005/redditclone/internal/client/config"
	"github.com/dmitrijs2005/redditclone/internal/client/services"
)

// App is the state shared by the CLI commands.
type App struct {
	config      *config.Config
	authService services.AuthService
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the session database and builds the API client.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDB)
	if err != nil {
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerURL, c.Timeout)
	as := services.NewAuthService(apiClient, db)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Close releases the session database.
func (a *App) Close() error {
	return a.authService.Close()
}
