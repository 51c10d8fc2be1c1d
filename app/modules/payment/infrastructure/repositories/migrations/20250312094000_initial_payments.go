package paymentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	paymentdb "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating payment tables...")

		models := []any{
			(*paymentdb.FeeConfig)(nil),
			(*paymentdb.FeeStatus)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		_, err := db.ExecContext(ctx,
			`CREATE INDEX IF NOT EXISTS idx_fee_statuses_event
				ON fee_statuses(event_id)`)
		if err != nil {
			return fmt.Errorf("failed to create payment index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping payment tables...")

		models := []any{
			(*paymentdb.FeeStatus)(nil),
			(*paymentdb.FeeConfig)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
