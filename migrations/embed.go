// Package migrations embeds the schema files applied by schoolctl migrate and on API start-up.
package migrations

import "embed"

// Files holds the ordered *.up.sql migrations.
//
//go:embed *.sql
var Files embed.FS
