// Package services contains application services for the redditclone CLI.
// This file defines the authentication service: signup, activation, login,
// token refresh, logout and the current-user lookup, with the session kept
// in the local SQLite database.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/client/client"
	"github.com/dmitrijs2005/redditclone/internal/client/repositories/session"
	"github.com/dmitrijs2005/redditclone/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup: create a disabled account; the server mails an activation link.
//   - VerifyAccount: activate an account with the token from that link.
//   - Login: authenticate and persist the session locally.
//   - Refresh: exchange the stored refresh token for a new session.
//   - Logout: revoke the refresh token on the server and forget the session.
//   - Me: fetch the logged-in user, refreshing the access token when needed.
//   - Ping: check server liveness.
//   - Close: release the local database.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Signup(ctx context.Context, username, email string, password []byte) error
	VerifyAccount(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, username string, password []byte) (*session.Session, error)
	Refresh(ctx context.Context) (*session.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*client.User, error)
	Ping(ctx context.Context) error
	Close() error
}

// authService is the concrete AuthService backed by a remote Client
// and a local SQL database for the session.
type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) sessions(db dbx.DBTX) session.Repository {
	return session.NewSQLiteRepository(db)
}

func (a *authService) Signup(ctx context.Context, username, email string, password []byte) error {
	return a.client.Signup(ctx, username, email, password)
}

func (a *authService) VerifyAccount(ctx context.Context, token string) (string, error) {
	return a.client.VerifyAccount(ctx, token)
}

// Login authenticates against the server and replaces the stored session.
func (a *authService) Login(ctx context.Context, username string, password []byte) (*session.Session, error) {
	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return a.store(ctx, resp)
}

// Refresh trades the stored refresh token for a new one. A rejected token
// means the session is over, so it is forgotten locally as well.
func (a *authService) Refresh(ctx context.Context) (*session.Session, error) {
	s, err := a.current(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Refresh(ctx, s.UserName, s.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.sessions(a.db).Clear(ctx)
		}
		return nil, fmt.Errorf("refresh error: %w", err)
	}
	return a.store(ctx, resp)
}

// Logout revokes the refresh token and clears the local session even when
// the server cannot be reached.
func (a *authService) Logout(ctx context.Context) error {
	s, err := a.sessions(a.db).Load(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}

	remoteErr := a.client.Logout(ctx, s.RefreshToken)
	if err := a.sessions(a.db).Clear(ctx); err != nil {
		return err
	}
	if remoteErr != nil {
		return fmt.Errorf("logout error: %w", remoteErr)
	}
	return nil
}

// Me returns the logged-in user. An expired or rejected access token is
// refreshed once before giving up.
func (a *authService) Me(ctx context.Context) (*client.User, error) {
	s, err := a.current(ctx)
	if err != nil {
		return nil, err
	}

	if !s.ExpiresAt.IsZero() && !a.now().Before(s.ExpiresAt) {
		if s, err = a.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	u, err := a.client.Me(ctx, s.AuthenticationToken)
	if errors.Is(err, client.ErrUnauthorized) {
		if s, err = a.Refresh(ctx); err != nil {
			return nil, err
		}
		u, err = a.client.Me(ctx, s.AuthenticationToken)
	}
	return u, err
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close() error {
	return a.db.Close()
}

func (a *authService) current(ctx context.Context) (*session.Session, error) {
	s, err := a.sessions(a.db).Load(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, client.ErrLocalDataNotAvailable
	}
	return s, nil
}

// store persists resp as the current session in a single transaction.
func (a *authService) store(ctx context.Context, resp *client.AuthResponse) (*session.Session, error) {
	s := &session.Session{
		UserName:            resp.UserName,
		AuthenticationToken: resp.AuthenticationToken,
		RefreshToken:        resp.RefreshToken,
		ExpiresAt:           resp.ExpiresAt,
	}
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.sessions(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		return repo.Save(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}
