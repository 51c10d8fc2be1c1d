// Package notificationmigrations registers the notification module's schema
// migrations.
package notificationmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
