package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/dbx"
)

// Metadata keys.
const (
	keyUserName     = "username"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "expires_at"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save replaces the stored session. Run it inside a transaction to keep
// the keys consistent.
func (r *SQLiteRepository) Save(ctx context.Context, s *Session) error {
	values := map[string]string{
		keyUserName:     s.UserName,
		keyAccessToken:  s.AuthenticationToken,
		keyRefreshToken: s.RefreshToken,
		keyExpiresAt:    s.ExpiresAt.UTC().Format(time.RFC3339),
	}
	for k, v := range values {
		if err := r.set(ctx, k, []byte(v)); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the stored session, or (nil, nil) when nobody is logged in.
func (r *SQLiteRepository) Load(ctx context.Context) (*Session, error) {
	m, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	if len(m[keyRefreshToken]) == 0 {
		return nil, nil
	}

	s := &Session{
		UserName:            string(m[keyUserName]),
		AuthenticationToken: string(m[keyAccessToken]),
		RefreshToken:        string(m[keyRefreshToken]),
	}
	if raw := m[keyExpiresAt]; len(raw) > 0 {
		exp, err := time.Parse(time.RFC3339, string(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse metadata[%s]: %w", keyExpiresAt, err)
		}
		s.ExpiresAt = exp
	}
	return s, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) list(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}
