package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating user tables...")

		models := []any{
			(*userdb.Branch)(nil),
			(*userdb.User)(nil),
			(*userdb.Athlete)(nil),
			(*userdb.Registration)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_registrations_athlete_modality
					ON registrations(athlete_id, modality_id, event_id)`,
				`CREATE INDEX IF NOT EXISTS idx_registrations_team
					ON registrations(event_id, modality_id, team_id)`,
				`CREATE INDEX IF NOT EXISTS idx_athletes_branch
					ON athletes(branch_id)`,
				`CREATE INDEX IF NOT EXISTS idx_users_branch
					ON users(branch_id)`,
			}
			for _, stmt := range statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create user index: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping user tables...")

		models := []any{
			(*userdb.Registration)(nil),
			(*userdb.Athlete)(nil),
			(*userdb.User)(nil),
			(*userdb.Branch)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
