package eventmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating event tables...")

		models := []any{
			(*eventdb.Event)(nil),
			(*eventdb.Modality)(nil),
			(*eventdb.Heat)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_heats_modality_number
					ON heats(modality_id, number)`,
				`CREATE INDEX IF NOT EXISTS idx_modalities_event
					ON modalities(event_id)`,
			}
			for _, stmt := range statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create event index: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping event tables...")

		models := []any{
			(*eventdb.Heat)(nil),
			(*eventdb.Modality)(nil),
			(*eventdb.Event)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
