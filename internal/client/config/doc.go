// Package config loads runtime configuration for the redditclone CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. REDDIT_CLIENT_* environment variables.
//  3. Command-line flags registered with RegisterFlags, which override
//     earlier values.
//
// Supported flags
//
//	-a, --server   base URL of the HTTP API
//	    --timeout  per-request timeout
//	    --session  path of the local session database
package config
