// Package migrations embeds the SQL schema migrations for the attendance store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
