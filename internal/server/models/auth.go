package models

import "time"

// AuthenticationResponse is returned by login and refresh.
type AuthenticationResponse struct {
	AuthenticationToken string    `json:"authenticationToken"`
	RefreshToken        string    `json:"refreshToken"`
	ExpiresAt           time.Time `json:"expiresAt"`
	UserName            string    `json:"username"`
}

// IssuedToken is a signed access token and its absolute expiry.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
