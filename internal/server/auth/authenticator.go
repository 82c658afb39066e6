package auth

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/samber/oops"
)

// Authenticator checks a username/password pair. Implementations return
// an error matching common.ErrorUnauthorized for every rejected login,
// whatever the reason.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// UserFinder looks users up by username.
type UserFinder interface {
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}

// PasswordAuthenticator authenticates against stored password hashes and
// only admits enabled accounts.
type PasswordAuthenticator struct {
	users     UserFinder
	hasher    PasswordHasher
	logger    logging.Logger
	dummyHash string
}

// NewPasswordAuthenticator prepares a dummy hash with the hasher's cost so
// that unknown usernames take as long to reject as wrong passwords.
func NewPasswordAuthenticator(users UserFinder, hasher PasswordHasher, logger logging.Logger) (*PasswordAuthenticator, error) {
	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}
	dummy, err := hasher.Hash(seed)
	if err != nil {
		return nil, err
	}
	return &PasswordAuthenticator{
		users:     users,
		hasher:    hasher,
		logger:    logger.With("module", "authenticator"),
		dummyHash: dummy,
	}, nil
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.GetUserByLogin(ctx, username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, oops.Code("AUTH_LOOKUP_FAILED").
			With("username", username).
			Wrap(err)
	}

	hash := a.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	valid := a.hasher.Verify(password, hash)

	switch {
	case user == nil:
		a.logger.Info(ctx, "login rejected", "username", username, "reason", "unknown user")
	case !valid:
		a.logger.Info(ctx, "login rejected", "username", username, "reason", "bad password")
	case !user.Enabled:
		a.logger.Info(ctx, "login rejected", "username", username, "reason", "account not enabled")
	default:
		return user, nil
	}

	return nil, oops.Code("AUTH_INVALID_CREDENTIALS").
		With("username", username).
		Wrap(common.ErrorUnauthorized)
}
