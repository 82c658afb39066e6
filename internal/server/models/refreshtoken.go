package models

import "time"

// RefreshToken is an opaque long-lived credential. It is bound to the user
// it was issued to.
type RefreshToken struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the token is older than maxAge at now.
// A non-positive maxAge never expires.
func (t *RefreshToken) IsExpired(now time.Time, maxAge time.Duration) bool {
	return maxAge > 0 && now.Sub(t.CreatedAt) > maxAge
}
