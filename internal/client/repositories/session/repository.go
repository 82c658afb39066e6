// Package session persists the CLI's logged-in session in the local SQLite
// metadata table.
package session

import (
	"context"
	"time"
)

// Session is what the CLI remembers between invocations.
type Session struct {
	UserName            string
	AuthenticationToken string
	RefreshToken        string
	ExpiresAt           time.Time
}

type Repository interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}
