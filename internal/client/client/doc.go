// Package client contains client-side building blocks for the redditclone CLI.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface) for the authentication
//     endpoints: Signup, VerifyAccount, Login, Refresh, Logout, Me, Ping.
//  2. A concrete HTTP implementation (see HTTPClient) that speaks JSON to
//     /api/auth and maps HTTP status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists, ErrBadRequest,
// ErrLocalDataNotAvailable. Server-reported failures are *APIError values
// carrying the status code and the server's message.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
