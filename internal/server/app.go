// Package server wires the authentication server together: database,
// refresh token store, mail dispatcher, services and the HTTP transport.
// It also owns startup checks and graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/auth"
	"github.com/dmitrijs2005/redditclone/internal/server/config"
	"github.com/dmitrijs2005/redditclone/internal/server/httpapi"
	"github.com/dmitrijs2005/redditclone/internal/server/mail"
	"github.com/dmitrijs2005/redditclone/internal/server/metrics"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/redditclone/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	redis       *redis.Client
	dispatcher  *mail.Dispatcher
	server      *httpapi.HTTPServer
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: repomanager.NewPostgresRepositoryManager(),
	}

	store, err := app.newRefreshStore()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	sender, err := newSender(c.Mail, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.dispatcher = mail.NewDispatcher(sender, dispatcherConfig(c.Mail), logger, m)

	hasher := auth.NewBcryptHasher(c.BcryptCost)
	authenticator, err := auth.NewPasswordAuthenticator(app.repomanager.Users(db), hasher, logger)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("authenticator init error: %w", err)
	}
	signer := auth.NewTokenSigner([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	authService := services.NewAuthService(services.AuthServiceOptions{
		DB:                db,
		RepoManager:       app.repomanager,
		Hasher:            hasher,
		Authenticator:     authenticator,
		Signer:            signer,
		Activation:        services.NewActivationService(db, app.repomanager, c.ActivationTokenValidityDuration, logger),
		RefreshTokens:     services.NewRefreshTokenService(store, c.RefreshTokenValidityDuration, logger),
		Notifier:          app.dispatcher,
		Metrics:           m,
		Logger:            logger,
		ActivationBaseURL: c.ActivationBaseURL,
		RotateRefresh:     c.RefreshTokenRotation,
	})

	app.server = httpapi.NewHTTPServer(c.HTTPAddr, logger, authService, signer, reg)

	return app, nil
}

// newRefreshStore selects the refresh token backend.
func (app *App) newRefreshStore() (refreshtokens.Repository, error) {
	switch app.config.RefreshTokenStore {
	case config.StoreRedis:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.config.Redis.Addr,
			Password: app.config.Redis.Password,
			DB:       app.config.Redis.DB,
		})
		return refreshtokens.NewRedisRepository(app.redis, app.config.RefreshTokenValidityDuration), nil
	case config.StorePostgres, "":
		return app.repomanager.RefreshTokens(app.db), nil
	default:
		return nil, fmt.Errorf("unknown refresh token store %q", app.config.RefreshTokenStore)
	}
}

func dispatcherConfig(c config.MailConfig) mail.DispatcherConfig {
	return mail.DispatcherConfig{
		Workers:     c.Workers,
		QueueSize:   c.QueueSize,
		MaxRetries:  c.MaxRetries,
		BaseBackoff: c.BaseBackoff,
	}
}

func newSender(c config.MailConfig, logger logging.Logger) (mail.Sender, error) {
	if c.Host == "" {
		return mail.NewLogSender(logger), nil
	}
	s, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	})
	if err != nil {
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	return s, nil
}

// waitForBackends pings the database, and Redis when configured, retrying
// while they start up.
func (app *App) waitForBackends(ctx context.Context) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Warn(ctx, "database not ready", "error", err)
			return retry.RetryableError(err)
		}
		if app.redis != nil {
			if err := app.redis.Ping(ctx).Err(); err != nil {
				app.logger.Warn(ctx, "redis not ready", "error", err)
				return retry.RetryableError(err)
			}
		}
		return nil
	})
}

// Migrate applies the embedded schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.waitForBackends(ctx); err != nil {
		return fmt.Errorf("backends unavailable: %w", err)
	}
	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	app.logger.Info(ctx, "migrations applied")
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run migrates the schema, starts the mail workers and serves HTTP until
// ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.Migrate(ctx); err != nil {
		return err
	}

	// Mail workers outlive the request context so queued mail is flushed on shutdown.
	mailCtx, cancelMail := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelMail()
	app.dispatcher.Start(mailCtx)

	err := app.server.Run(ctx)
	cancelFunc()

	app.logger.Info(ctx, "Flushing notification queue...")
	app.dispatcher.Close()

	return errors.Join(err, app.Close())
}

// Close releases the database and Redis connections.
func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
