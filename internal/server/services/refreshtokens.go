package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/refreshtokens"
	"github.com/samber/oops"
)

// RefreshTokenService issues, validates, rotates and revokes refresh
// tokens against a refreshtokens.Repository (Postgres or Redis).
type RefreshTokenService struct {
	store  refreshtokens.Repository
	maxAge time.Duration
	now    func() time.Time
	logger logging.Logger
}

// NewRefreshTokenService returns a service whose tokens expire maxAge after
// issuance. A non-positive maxAge disables the age check.
func NewRefreshTokenService(store refreshtokens.Repository, maxAge time.Duration, logger logging.Logger) *RefreshTokenService {
	return &RefreshTokenService{
		store:  store,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger.With("module", "refreshtokens"),
	}
}

func (s *RefreshTokenService) generate() (string, error) {
	return common.MakeRandHexString(common.RefreshTokenSize)
}

// Issue stores a new token bound to user and returns its value.
func (s *RefreshTokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	value, err := s.generate()
	if err != nil {
		return "", oops.Code("REFRESH_GENERATE_FAILED").Wrap(err)
	}

	rt := &models.RefreshToken{
		Token:     value,
		UserID:    user.ID,
		UserName:  user.UserName,
		CreatedAt: s.now(),
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return "", oops.Code("REFRESH_STORE_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return value, nil
}

// Validate returns the stored record for token. Unknown tokens yield
// ErrInvalidRefreshToken and tokens older than the maximum age
// ErrRefreshTokenExpired.
func (s *RefreshTokenService) Validate(ctx context.Context, token string) (*models.RefreshToken, error) {
	if token == "" {
		return nil, oops.Code("REFRESH_TOKEN_INVALID").Wrap(common.ErrInvalidRefreshToken)
	}

	rt, err := s.store.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, oops.Code("REFRESH_TOKEN_INVALID").Wrap(common.ErrInvalidRefreshToken)
		}
		return nil, oops.Code("REFRESH_LOOKUP_FAILED").Wrap(err)
	}

	if rt.IsExpired(s.now(), s.maxAge) {
		return nil, oops.Code("REFRESH_TOKEN_EXPIRED").
			With("user_id", rt.UserID).
			With("created_at", rt.CreatedAt).
			Wrap(common.ErrRefreshTokenExpired)
	}
	return rt, nil
}

// Rotate invalidates rt and issues a replacement for the same owner. The
// replacement is stored before rt is consumed, so a failing store leaves
// rt usable. When another request already consumed rt the replacement is
// withdrawn and the call fails with ErrInvalidRefreshToken.
func (s *RefreshTokenService) Rotate(ctx context.Context, rt *models.RefreshToken) (string, error) {
	next, err := s.Issue(ctx, &models.User{ID: rt.UserID, UserName: rt.UserName})
	if err != nil {
		return "", err
	}

	if _, err := s.store.Consume(ctx, rt.Token); err != nil {
		if derr := s.store.Delete(ctx, next); derr != nil {
			s.logger.Error(ctx, "replacement refresh token not withdrawn", "user_id", rt.UserID, "error", derr)
		}
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "refresh token already consumed", "user_id", rt.UserID)
			return "", oops.Code("REFRESH_TOKEN_REUSED").With("user_id", rt.UserID).Wrap(common.ErrInvalidRefreshToken)
		}
		return "", oops.Code("REFRESH_CONSUME_FAILED").Wrap(err)
	}
	return next, nil
}

// Revoke deletes token. Unknown tokens are ignored.
func (s *RefreshTokenService) Revoke(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return oops.Code("REFRESH_REVOKE_FAILED").Wrap(err)
	}
	return nil
}
