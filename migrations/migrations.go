// Package migrations embeds the goose SQL migrations for the users schema.
package migrations

import "embed"

// FS holds every *.sql migration at its root.
//
//go:embed *.sql
var FS embed.FS

// Dir is the path passed to goose when FS is the base filesystem.
const Dir = "."
