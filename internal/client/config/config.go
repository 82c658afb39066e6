package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the redditclone CLI.
//
// Fields:
//   - ServerURL: base URL of the HTTP API, without the /api/auth prefix.
//   - Timeout: per-request timeout.
//   - SessionDB: SQLite file holding the logged-in session.
type Config struct {
	ServerURL string        `env:"REDDIT_CLIENT_SERVER"`
	Timeout   time.Duration `env:"REDDIT_CLIENT_TIMEOUT"`
	SessionDB string        `env:"REDDIT_CLIENT_SESSION"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.Timeout = 10 * time.Second
	c.SessionDB = defaultSessionPath()
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "redditclone-session.db"
	}
	return filepath.Join(dir, "redditclone", "session.db")
}

// RegisterFlags binds the CLI flags to c. Call it after the defaults and
// the environment have been applied so they show up as flag defaults.
func RegisterFlags(fs *pflag.FlagSet, c *Config) {
	fs.StringVarP(&c.ServerURL, "server", "a", c.ServerURL, "base URL of the redditclone API")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "request timeout")
	fs.StringVar(&c.SessionDB, "session", c.SessionDB, "path of the local session database")
}

// LoadConfig constructs a Config from the defaults and the environment.
// Flags are layered on top by RegisterFlags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
