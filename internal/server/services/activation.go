package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/dbx"
	"github.com/dmitrijs2005/redditclone/internal/logging"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// ActivationService mints and redeems account activation tokens.
type ActivationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
	now         func() time.Time
	logger      logging.Logger
}

func NewActivationService(db *sql.DB, m repomanager.RepositoryManager, validity time.Duration, logger logging.Logger) *ActivationService {
	return &ActivationService{
		db:          db,
		repomanager: m,
		validity:    validity,
		now:         time.Now,
		logger:      logger.With("module", "activation"),
	}
}

// Mint creates a random activation token for user within tx and returns its
// value.
func (s *ActivationService) Mint(ctx context.Context, tx dbx.DBTX, user *models.User) (string, error) {
	now := s.now()
	token := &models.ActivationToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.validity),
	}

	if err := s.repomanager.ActivationTokens(tx).Create(ctx, token); err != nil {
		return "", oops.Code("ACTIVATION_MINT_FAILED").With("user_id", user.ID).Wrap(err)
	}
	return token.Token, nil
}

// Consume redeems token and enables the account it belongs to. The token
// is deleted and the account updated in one transaction; an expired token
// rolls the transaction back.
func (s *ActivationService) Consume(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, oops.Code("ACTIVATION_TOKEN_INVALID").Wrap(common.ErrInvalidToken)
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		at, err := s.repomanager.ActivationTokens(tx).Consume(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, oops.Code("ACTIVATION_TOKEN_INVALID").Wrap(common.ErrInvalidToken)
			}
			return nil, oops.Code("ACTIVATION_CONSUME_FAILED").Wrap(err)
		}

		if at.IsExpired(s.now()) {
			return nil, oops.Code("ACTIVATION_TOKEN_EXPIRED").
				With("user_id", at.UserID).
				With("expired_at", at.ExpiresAt).
				Wrap(common.ErrActivationTokenExpired)
		}

		users := s.repomanager.Users(tx)
		user, err := users.GetByID(ctx, at.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				err = oops.Code("ACTIVATION_USER_MISSING").With("user_id", at.UserID).Wrap(common.ErrUserNotFound)
				logging.LogError(ctx, s.logger, "activation token references a missing user", err)
				return nil, err
			}
			return nil, oops.Code("ACTIVATION_USER_LOOKUP_FAILED").Wrap(err)
		}

		if err := users.Enable(ctx, user.ID); err != nil {
			return nil, oops.Code("ACTIVATION_ENABLE_FAILED").With("user_id", user.ID).Wrap(err)
		}
		user.Enabled = true

		return user, nil
	})
}
