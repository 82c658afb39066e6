// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match these
// values; services wrap them with additional context.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("authentication failed")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Token lifecycle errors. Each one also matches its parent error.
	ErrTokenExpired           = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrActivationTokenExpired = fmt.Errorf("%w: activation token expired", ErrInvalidToken)
	ErrRefreshTokenExpired    = fmt.Errorf("%w: refresh token expired", ErrInvalidRefreshToken)

	// ErrUserNotFound means a token referenced a user that does not exist.
	// It signals broken data rather than bad input.
	ErrUserNotFound = errors.New("user not found")
)
