// Package migrations embeds the SQL schema migrations applied by cmd/migrate
// and the repository tests.
package migrations

import "embed"

// FS holds the numbered up and down migration files.
//
//go:embed *.sql
var FS embed.FS
