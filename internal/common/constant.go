package common

// AuthorizationHeaderName carries the access token on HTTP requests as
// "Bearer <token>".
const (
	AuthorizationHeaderName = "Authorization"
	BearerScheme            = "Bearer"
)

// RefreshTokenSize is the number of random bytes behind a refresh token.
const RefreshTokenSize = 32
