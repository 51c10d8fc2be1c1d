package notificationqueue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
)

// RecipientSource resolves who should hear about an event. The user module
// provides the implementation through an adapter.
type RecipientSource interface {
	EventRecipientIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

// ReminderWorker stores one reminder row per registered participant and hands
// each row to the dispatch queue.
type ReminderWorker struct {
	river.WorkerDefaults[ReminderJob]
	repo       notificationdb.Repository
	recipients RecipientSource
	logger     *slog.Logger
}

func NewReminderWorker(repo notificationdb.Repository, recipients RecipientSource, logger *slog.Logger) *ReminderWorker {
	return &ReminderWorker{repo: repo, recipients: recipients, logger: logger}
}

func (w *ReminderWorker) Work(ctx context.Context, job *river.Job[ReminderJob]) error {
	recipientIDs, err := w.recipients.EventRecipientIDs(ctx, job.Args.EventID)
	if err != nil {
		return err
	}
	if len(recipientIDs) == 0 {
		w.logger.InfoContext(ctx, "Event has no registered participants to remind",
			attr.UUID("event_id", job.Args.EventID))
		return nil
	}

	client := river.ClientFromContext[pgx.Tx](ctx)
	for _, recipientID := range recipientIDs {
		n := &notificationdb.Notification{
			RecipientID: recipientID,
			Kind:        notificationdb.KindEventReminder,
			Payload: map[string]any{
				"event_id":   job.Args.EventID.String(),
				"event_name": job.Args.EventName,
				"starts_at":  job.Args.StartsAt,
			},
		}
		if err := w.repo.Insert(ctx, n); err != nil {
			return err
		}
		if _, err := client.Insert(ctx, DispatchJob{NotificationID: n.ID}, &river.InsertOpts{
			Queue:      queueName,
			UniqueOpts: river.UniqueOpts{ByArgs: true},
		}); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "Event reminders queued",
		attr.UUID("event_id", job.Args.EventID),
		attr.Int("recipients", len(recipientIDs)),
	)
	return nil
}
