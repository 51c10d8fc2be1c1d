// Package scoremigrations registers the score module's schema migrations.
package scoremigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
