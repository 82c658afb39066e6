// Package migrations embeds the SQLite schema of the local session database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
