// Package services contains server-side business logic: account activation,
// refresh token lifecycle and the authentication flows built on top of them.
package services
