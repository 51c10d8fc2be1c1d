// Package usermigrations registers the user module's schema migrations.
package usermigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
