// Package activationtokens stores the one-time account activation tokens
// minted at signup.
package activationtokens

import (
	"context"

	"github.com/dmitrijs2005/redditclone/internal/server/models"
)

// Repository persists activation tokens.
type Repository interface {
	// Create stores token.
	Create(ctx context.Context, token *models.ActivationToken) error

	// Consume atomically removes the token and returns what was stored.
	// An unknown or already consumed token yields common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.ActivationToken, error)
}
