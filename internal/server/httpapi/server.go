// Package httpapi exposes the authentication service over HTTP using fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/dmitrijs2005/redditclone/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the business API served by the handlers.
type AuthService interface {
	Signup(ctx context.Context, req services.SignupRequest) error
	VerifyAccount(ctx context.Context, token string) error
	Login(ctx context.Context, req services.LoginRequest) (*models.AuthenticationResponse, error)
	Refresh(ctx context.Context, req services.RefreshTokenRequest) (*models.AuthenticationResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// TokenVerifier checks an access token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type HTTPServer struct {
	address  string
	app      *fiber.App
	auth     AuthService
	verifier TokenVerifier
	logger   logging.Logger
}

// NewHTTPServer builds the fiber application. gatherer may be nil, in
// which case /metrics is not served.
func NewHTTPServer(address string, l logging.Logger, as AuthService, v TokenVerifier, gatherer prometheus.Gatherer) *HTTPServer {
	s := &HTTPServer{
		address:  address,
		auth:     as,
		verifier: v,
		logger:   l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "redditclone",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api/auth")
	api.Post("/signup", s.signup)
	api.Get("/accountVerification/:token", s.verifyAccount)
	api.Post("/login", s.login)
	api.Post("/refresh/token", s.refreshToken)
	api.Post("/logout", s.logout)
	api.Get("/me", s.requireBearer, s.currentUser)

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}

func (s *HTTPServer) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := s.errorHandler(c, err); herr != nil {
			return herr
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Route().Path,
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}
