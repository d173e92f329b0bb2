// Package migrations embeds the goose SQL migrations so the server and the
// test harness can apply the schema without a filesystem checkout.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
