package notificationqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
)

// DispatchWorker delivers one notification. Delivery is the in-repo boundary:
// marking the row sent is what downstream channels key off.
type DispatchWorker struct {
	river.WorkerDefaults[DispatchJob]
	repo   notificationdb.Repository
	logger *slog.Logger
}

func NewDispatchWorker(repo notificationdb.Repository, logger *slog.Logger) *DispatchWorker {
	return &DispatchWorker{repo: repo, logger: logger}
}

func (w *DispatchWorker) Work(ctx context.Context, job *river.Job[DispatchJob]) error {
	if err := w.repo.MarkSent(ctx, job.Args.NotificationID, time.Now()); err != nil {
		// Already-sent rows come back as not found; retrying won't help.
		if errors.Is(err, notificationdb.ErrNotificationNotFound) {
			return nil
		}
		w.logger.ErrorContext(ctx, "Failed to dispatch notification",
			attr.UUID("notification_id", job.Args.NotificationID),
			attr.Error(err),
		)
		return err
	}
	w.logger.InfoContext(ctx, "Notification dispatched",
		attr.UUID("notification_id", job.Args.NotificationID),
	)
	return nil
}
