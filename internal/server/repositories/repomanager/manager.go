package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/redditclone/internal/dbx"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/activationtokens"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/redditclone/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx so
// that services can compose them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ActivationTokens(db dbx.DBTX) activationtokens.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
