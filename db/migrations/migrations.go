// Package migrations embeds the versioned schema for every supported
// storage driver so the binary and the tests never depend on a working
// directory.
package migrations

import "embed"

// FS holds one directory of golang-migrate files per driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Directory names inside FS.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)
