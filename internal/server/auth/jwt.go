// Package auth contains the authentication primitives of the server: the
// password hasher, the access token signer, the credential authenticator
// and the request principal carried in a context.Context.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/redditclone/internal/common"
	"github.com/dmitrijs2005/redditclone/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims. The subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 access tokens.
type TokenSigner struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// SignerOption customizes a TokenSigner.
type SignerOption func(*TokenSigner)

// WithClock replaces time.Now as the signer's time source.
func WithClock(now func() time.Time) SignerOption {
	return func(s *TokenSigner) { s.now = now }
}

func NewTokenSigner(secretKey []byte, lifetime time.Duration, opts ...SignerOption) *TokenSigner {
	s := &TokenSigner{secret: secretKey, lifetime: lifetime, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ExpiryDuration is the configured access token lifetime.
func (s *TokenSigner) ExpiryDuration() time.Duration {
	return s.lifetime
}

// Issue signs an access token for user.
func (s *TokenSigner) Issue(user *models.User) (models.IssuedToken, error) {
	return s.IssueForUsername(user.UserName)
}

// IssueForUsername signs an access token whose subject is username.
// Timestamps are cut to JWT precision so that exp - iat is exactly the
// configured lifetime.
func (s *TokenSigner) IssueForUsername(username string) (models.IssuedToken, error) {
	issuedAt := s.now().Truncate(jwt.TimePrecision)
	expiresAt := issuedAt.Add(s.lifetime)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return models.IssuedToken{}, err
	}

	return models.IssuedToken{Value: tokenString, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// subject. Only HS256 is accepted. A token is expired once exp <= now.
func (s *TokenSigner) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
