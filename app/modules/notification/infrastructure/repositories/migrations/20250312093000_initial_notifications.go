package notificationmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating notification tables...")

		if _, err := db.NewCreateTable().Model((*notificationdb.Notification)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx,
			`CREATE INDEX IF NOT EXISTS idx_notifications_recipient
				ON notifications(recipient_id, created_at DESC)`)
		if err != nil {
			return fmt.Errorf("failed to create notification index: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping notification tables...")
		_, err := db.NewDropTable().Model((*notificationdb.Notification)(nil)).IfExists().Exec(ctx)
		return err
	})
}
