// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens, with PostgreSQL and Redis implementations.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/redditclone/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token record.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its opaque token string and returns its metadata.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume removes the token and returns the removed record in one atomic
	// step. Of two concurrent calls for the same token at most one succeeds;
	// the other gets common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error
}
