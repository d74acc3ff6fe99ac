// Package migrations holds the schema of the postgres store backend.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied when the postgres store opens.
var Migrations = migrate.NewMigrations()
