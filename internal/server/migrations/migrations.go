// Package migrations embeds the goose SQL migrations of the metadata store.
// The statements stay within the subset understood by both SQLite and
// PostgreSQL.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
