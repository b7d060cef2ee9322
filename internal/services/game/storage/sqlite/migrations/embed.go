package migrations

import "embed"

// FS contains embedded SQLite migrations for save slots.
//
//go:embed *.sql
var FS embed.FS
