// Package integrationtests runs end-to-end flows against real Postgres and
// NATS containers. The suite is skipped under -short.
package integrationtests

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.opentelemetry.io/otel/trace/noop"

	eventmigrations "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories/migrations"
	notificationmigrations "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories/migrations"
	paymentmigrations "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories/migrations"
	scoremigrations "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories/migrations"
	usermigrations "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories/migrations"
	"github.com/placar-app/placar-backend/integration_tests/containers"
	"github.com/placar-app/placar-backend/internal/observability"
)

var (
	testLogger  = slog.New(slog.DiscardHandler)
	testMetrics = observability.NoOpMetrics{}
	testTracer  = noop.NewTracerProvider().Tracer("integration")
)

// setupDB starts a Postgres container, applies every module's migrations, and
// returns a ready bun.DB. Cleanup tears the container down with the test.
func setupDB(t *testing.T) *bun.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	container, dsn, err := containers.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.PingContext(ctx))

	for _, migrations := range []*migrate.Migrations{
		usermigrations.Migrations,
		eventmigrations.Migrations,
		scoremigrations.Migrations,
		notificationmigrations.Migrations,
		paymentmigrations.Migrations,
	} {
		migrator := migrate.NewMigrator(db, migrations)
		require.NoError(t, migrator.Init(ctx))
		_, err := migrator.Migrate(ctx)
		require.NoError(t, err)
	}
	return db
}
