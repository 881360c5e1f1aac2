// Package migrations embeds the SQL schema files applied by cmd/migrate and,
// when database.auto_migrate is set, by the server at startup.
package migrations

import "embed"

// FS holds every *.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
