// Package sqlite holds the schema migrations for the embedded store.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS

// Path is the directory inside Migrations that holds the files.
const Path = "."
