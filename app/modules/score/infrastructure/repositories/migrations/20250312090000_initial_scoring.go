package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scoring tables...")

		models := []any{
			(*scoredb.ScoringTemplate)(nil),
			(*scoredb.ScoringField)(nil),
			(*scoredb.Score)(nil),
			(*scoredb.Attempt)(nil),
			(*scoredb.Participation)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_scoring_fields_template_key
					ON scoring_fields(template_id, field_key)`,
				// One live score per exact tuple; NULL heats get their own index
				// since Postgres treats NULLs as distinct.
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_scores_tuple_heat
					ON scores(athlete_id, modality_id, event_id, judge_id, template_id, heat_id)
					WHERE heat_id IS NOT NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_scores_tuple_no_heat
					ON scores(athlete_id, modality_id, event_id, judge_id, template_id)
					WHERE heat_id IS NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_attempts_score_field
					ON attempts(score_id, field_key)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_participations_heat
					ON participations(athlete_id, modality_id, event_id, heat_id)
					WHERE heat_id IS NOT NULL`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_participations_no_heat
					ON participations(athlete_id, modality_id, event_id)
					WHERE heat_id IS NULL`,
				`CREATE INDEX IF NOT EXISTS idx_scores_scope
					ON scores(event_id, modality_id, template_id)`,
			}
			for _, stmt := range statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create scoring index: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scoring tables...")

		models := []any{
			(*scoredb.Participation)(nil),
			(*scoredb.Attempt)(nil),
			(*scoredb.Score)(nil),
			(*scoredb.ScoringField)(nil),
			(*scoredb.ScoringTemplate)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
