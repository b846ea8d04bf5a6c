package migrations

import "embed"

// FS contains embedded SQLite migrations for the string-set store.
//
//go:embed *.sql
var FS embed.FS
