// Package migrations embeds the schema migrations so the server and the
// migrate command need no files on disk.
package migrations

import "embed"

// FS holds the numbered up and down migrations
//
//go:embed *.sql
var FS embed.FS
