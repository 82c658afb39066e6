// Package cli provides the redditclone command-line client.
//
// It wires configuration, the local session database and the HTTP API
// client behind a set of cobra commands:
//
//	signup               create an account (activation link arrives by mail)
//	verify <token>       activate an account
//	login [username]     authenticate and remember the session
//	refresh              rotate the stored refresh token
//	whoami               show the logged-in user
//	logout               revoke the session
//
// Passwords are read from the terminal without echo and wiped after use.
package cli
