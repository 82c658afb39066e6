package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/dbx"
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/auth"
	"github.com/dmitrijs2005/redditclone/internal/server/metrics"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/repomanager"
	"github.com/samber/oops"
)

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(ctx context.Context, n models.Notification) error
}

// AuthServiceOptions collects the collaborators of AuthService.
type AuthServiceOptions struct {
	DB                *sql.DB
	RepoManager       repomanager.RepositoryManager
	Hasher            auth.PasswordHasher
	Authenticator     auth.Authenticator
	Signer            *auth.TokenSigner
	Activation        *ActivationService
	RefreshTokens     *RefreshTokenService
	Notifier          Notifier
	Metrics           *metrics.Metrics
	Logger            logging.Logger
	ActivationBaseURL string
	RotateRefresh     bool
}

// AuthService implements signup, account verification, login, token
// refresh, logout and current-user lookup.
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	authenticator auth.Authenticator
	signer        *auth.TokenSigner
	activation    *ActivationService
	refresh       *RefreshTokenService
	notifier      Notifier
	metrics       *metrics.Metrics
	logger        logging.Logger

	activationBaseURL string
	rotateRefresh     bool
}

func NewAuthService(o AuthServiceOptions) *AuthService {
	return &AuthService{
		db:                o.DB,
		repomanager:       o.RepoManager,
		hasher:            o.Hasher,
		authenticator:     o.Authenticator,
		signer:            o.Signer,
		activation:        o.Activation,
		refresh:           o.RefreshTokens,
		notifier:          o.Notifier,
		metrics:           o.Metrics,
		logger:            o.Logger.With("module", "auth"),
		activationBaseURL: o.ActivationBaseURL,
		rotateRefresh:     o.RotateRefresh,
	}
}

func validationError(code string, err error) error {
	return oops.Code(code).Wrap(fmt.Errorf("%w: %s", common.ErrorValidation, err.Error()))
}

// Signup registers a disabled account and queues its activation mail.
// Mail problems never fail the signup.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (err error) {
	defer func() {
		switch {
		case err == nil:
			s.metrics.RecordSignup(metrics.ResultSuccess)
		case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists):
			s.metrics.RecordSignup(metrics.ResultFailure)
		default:
			s.metrics.RecordSignup(metrics.ResultError)
		}
	}()

	if err := req.Validate(); err != nil {
		return validationError("SIGNUP_INVALID", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	var (
		user  *models.User
		token string
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{
			UserName:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Enabled:      false,
		})
		if err != nil {
			return err
		}
		token, err = s.activation.Mint(ctx, tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return oops.Code("SIGNUP_DUPLICATE").With("username", req.Username).Wrap(err)
		}
		return oops.Code("SIGNUP_FAILED").With("username", req.Username).Wrap(err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)

	n := ActivationNotification(s.activationBaseURL, user.Email, token)
	if err := s.notifier.Enqueue(ctx, n); err != nil {
		s.logger.Warn(ctx, "activation mail not queued", "user_id", user.ID, "error", err)
	}

	return nil
}

// VerifyAccount enables the account the activation token was minted for.
func (s *AuthService) VerifyAccount(ctx context.Context, token string) error {
	user, err := s.activation.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			s.metrics.RecordActivation(metrics.ResultFailure)
		} else {
			s.metrics.RecordActivation(metrics.ResultError)
		}
		return err
	}

	s.metrics.RecordActivation(metrics.ResultSuccess)
	s.logger.Info(ctx, "account activated", "user_id", user.ID, "username", user.UserName)
	return nil
}

// Login authenticates the credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.AuthenticationResponse, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordLogin(metrics.ResultFailure)
		return nil, oops.Code("LOGIN_INVALID_CREDENTIALS").Wrap(common.ErrorUnauthorized)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.metrics.RecordLogin(metrics.ResultFailure)
		} else {
			s.metrics.RecordLogin(metrics.ResultError)
		}
		return nil, err
	}

	access, err := s.signer.Issue(user)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		return nil, oops.Code("LOGIN_SIGN_FAILED").Wrap(err)
	}

	refresh, err := s.refresh.Issue(ctx, user)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		return nil, err
	}

	s.metrics.RecordLogin(metrics.ResultSuccess)
	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.UserName)

	return &models.AuthenticationResponse{
		AuthenticationToken: access.Value,
		RefreshToken:        refresh,
		ExpiresAt:           access.ExpiresAt,
		UserName:            user.UserName,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The token must
// belong to req.Username. With rotation enabled the presented token is
// replaced; otherwise it is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*models.AuthenticationResponse, error) {
	if err := req.Validate(); err != nil {
		s.metrics.RecordRefresh(metrics.ResultFailure)
		return nil, validationError("REFRESH_INVALID_REQUEST", err)
	}

	resp, err := s.refreshTokens(ctx, req)
	switch {
	case err == nil:
		s.metrics.RecordRefresh(metrics.ResultSuccess)
	case errors.Is(err, common.ErrInvalidRefreshToken):
		s.metrics.RecordRefresh(metrics.ResultFailure)
	default:
		s.metrics.RecordRefresh(metrics.ResultError)
	}
	return resp, err
}

func (s *AuthService) refreshTokens(ctx context.Context, req RefreshTokenRequest) (*models.AuthenticationResponse, error) {
	rt, err := s.refresh.Validate(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	if rt.UserName != req.Username {
		s.logger.Warn(ctx, "refresh token presented for another user",
			"owner_id", rt.UserID, "claimed_username", req.Username)
		return nil, oops.Code("REFRESH_OWNER_MISMATCH").With("user_id", rt.UserID).Wrap(common.ErrInvalidRefreshToken)
	}

	next := req.RefreshToken
	if s.rotateRefresh {
		next, err = s.refresh.Rotate(ctx, rt)
		if err != nil {
			return nil, err
		}
	}

	access, err := s.signer.IssueForUsername(rt.UserName)
	if err != nil {
		return nil, oops.Code("REFRESH_SIGN_FAILED").Wrap(err)
	}

	return &models.AuthenticationResponse{
		AuthenticationToken: access.Value,
		RefreshToken:        next,
		ExpiresAt:           access.ExpiresAt,
		UserName:            rt.UserName,
	}, nil
}

// Logout revokes the refresh token. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return oops.Code("LOGOUT_INVALID_REQUEST").Wrap(fmt.Errorf("%w: refreshToken: cannot be blank", common.ErrorValidation))
	}
	return s.refresh.Revoke(ctx, refreshToken)
}

// CurrentUser loads the account of the principal carried by ctx.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return nil, oops.Code("CURRENT_USER_ANONYMOUS").Wrap(common.ErrorUnauthorized)
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, p.UserName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			err = oops.Code("CURRENT_USER_MISSING").With("username", p.UserName).Wrap(common.ErrUserNotFound)
			logging.LogError(ctx, s.logger, "authenticated principal has no user record", err)
			return nil, err
		}
		return nil, oops.Code("CURRENT_USER_LOOKUP_FAILED").Wrap(err)
	}
	return user, nil
}

// IsAuthenticated reports whether ctx carries a verified principal.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	return auth.IsAuthenticated(ctx)
}
