// Package migrations embeds the goose SQL migrations for the word and
// history store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
