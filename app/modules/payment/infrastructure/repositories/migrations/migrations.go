// Package paymentmigrations registers the payment module's schema migrations.
package paymentmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
