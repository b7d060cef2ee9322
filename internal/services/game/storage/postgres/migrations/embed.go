package migrations

import "embed"

// FS contains embedded Postgres migrations for save slots.
//
//go:embed *.sql
var FS embed.FS
