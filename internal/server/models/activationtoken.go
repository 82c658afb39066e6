package models

import "time"

// ActivationToken is the one-time secret mailed at signup. UserID only
// references the account.
type ActivationToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token can no longer be used at now.
func (t *ActivationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
