package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flag names. Short forms follow the server's historical single-letter flags.
const (
	flagAddr              = "addr"
	flagDatabaseDSN       = "database-dsn"
	flagSecretKey         = "secret-key"
	flagAccessTokenTTL    = "access-token-ttl"
	flagRefreshTokenTTL   = "refresh-token-ttl"
	flagRefreshRotation   = "refresh-token-rotation"
	flagRefreshStore      = "refresh-token-store"
	flagActivationBaseURL = "activation-base-url"
	flagRedisAddr         = "redis-addr"
	flagMailHost          = "mail-host"
	flagLogLevel          = "log-level"
	flagLogFormat         = "log-format"
)

// RegisterFlags declares the server flags on fs. Values only take effect
// for flags the user actually sets; see ApplyFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(flagAddr, "a", "", "HTTP listen address (e.g. \":8080\")")
	fs.StringP(flagDatabaseDSN, "d", "", "PostgreSQL DSN")
	fs.StringP(flagSecretKey, "s", "", "access token HMAC secret key")
	fs.DurationP(flagAccessTokenTTL, "t", 0, "access token validity (e.g. 15m)")
	fs.DurationP(flagRefreshTokenTTL, "r", 0, "refresh token maximum lifetime, 0 disables the check")
	fs.Bool(flagRefreshRotation, true, "rotate refresh tokens on every refresh; false returns the presented token unchanged")
	fs.String(flagRefreshStore, "", "refresh token store: postgres or redis")
	fs.String(flagActivationBaseURL, "", "base URL embedded in activation emails")
	fs.String(flagRedisAddr, "", "Redis address for the redis refresh token store")
	fs.String(flagMailHost, "", "SMTP host; empty logs notifications instead")
	fs.String(flagLogLevel, "", "log level: debug, info, warn, error")
	fs.String(flagLogFormat, "", "log format: json or text")
}

// ApplyFlags copies every flag the user set on fs into cfg.
func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	strs := map[string]*string{
		flagAddr:              &cfg.HTTPAddr,
		flagDatabaseDSN:       &cfg.DatabaseDSN,
		flagSecretKey:         &cfg.SecretKey,
		flagRefreshStore:      &cfg.RefreshTokenStore,
		flagActivationBaseURL: &cfg.ActivationBaseURL,
		flagRedisAddr:         &cfg.Redis.Addr,
		flagMailHost:          &cfg.Mail.Host,
		flagLogLevel:          &cfg.LogLevel,
		flagLogFormat:         &cfg.LogFormat,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durations := map[string]*time.Duration{
		flagAccessTokenTTL:  &cfg.AccessTokenValidityDuration,
		flagRefreshTokenTTL: &cfg.RefreshTokenValidityDuration,
	}
	for name, dst := range durations {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed(flagRefreshRotation) {
		v, err := fs.GetBool(flagRefreshRotation)
		if err != nil {
			return err
		}
		cfg.RefreshTokenRotation = v
	}
	return nil
}

// Load builds a Config: defaults, then the YAML file at path (if non-empty)
// or the environment, then the flags set on fs (may be nil). The result is
// validated.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := readSources(path, cfg); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := ApplyFlags(fs, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
