// Package migrations embeds the schema for the condition and tag store.
package migrations

import "embed"

// Embedded migration files bundled at compile time, one directory per driver.
// Files are applied in filename order by db.MigrateUp.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
