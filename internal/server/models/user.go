// Package models holds the server-side records shared by repositories,
// services and the transport layer.
package models

import "time"

// User is an account. PasswordHash is a bcrypt digest; the plaintext is
// never stored. Enabled stays false until the activation link is used.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Enabled      bool
	CreatedAt    time.Time
}
