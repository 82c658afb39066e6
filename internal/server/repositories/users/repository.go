// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/redditclone/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken username
	// or email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Enable marks the account active. Unknown ids yield common.ErrorNotFound.
	Enable(ctx context.Context, id string) error
}
