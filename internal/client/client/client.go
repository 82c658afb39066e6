package client

import (
	"context"
	"time"
)

// AuthResponse is the body returned by login and refresh.
type AuthResponse struct {
	AuthenticationToken string    `json:"authenticationToken"`
	RefreshToken        string    `json:"refreshToken"`
	ExpiresAt           time.Time `json:"expiresAt"`
	UserName            string    `json:"username"`
}

// User is the body returned by /me.
type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client interface {
	Signup(ctx context.Context, username, email string, password []byte) error
	VerifyAccount(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, username string, password []byte) (*AuthResponse, error)
	Refresh(ctx context.Context, username, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, accessToken string) (*User, error)
	Ping(ctx context.Context) error
}
