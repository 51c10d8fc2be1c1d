// Package notificationservice turns score and ranking events into stored,
// queued notifications.
package notificationservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	eventevents "github.com/placar-app/placar-backend/app/modules/event/domain/events"
	leaderboardevents "github.com/placar-app/placar-backend/app/modules/leaderboard/domain/events"
	scoreevents "github.com/placar-app/placar-backend/app/modules/score/domain/events"
	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Enqueuer schedules delivery of stored notifications and event reminders.
type Enqueuer interface {
	EnqueueDispatch(ctx context.Context, notificationID uuid.UUID) error
	ScheduleEventReminder(ctx context.Context, eventID uuid.UUID, eventName string, startsAt time.Time) error
}

// NotificationService records notifications and hands them to the queue.
type NotificationService struct {
	repo    notificationdb.Repository
	queue   Enqueuer
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo notificationdb.Repository, queue Enqueuer, logger *slog.Logger, metrics observability.Metrics) *NotificationService {
	return &NotificationService{
		repo:    repo,
		queue:   queue,
		logger:  logger,
		metrics: metrics,
	}
}

// NotifyScoreUpdated records one notification per scored athlete.
func (s *NotificationService) NotifyScoreUpdated(ctx context.Context, payload scoreevents.ScoreUpdatedPayloadV1) error {
	s.metrics.RecordOperationAttempt(ctx, "NotifyScoreUpdated")

	for _, athleteID := range payload.AthleteIDs {
		n := &notificationdb.Notification{
			RecipientID: uuid.UUID(athleteID),
			Kind:        notificationdb.KindScoreUpdated,
			Payload: map[string]any{
				"event_id":    payload.EventID.String(),
				"modality_id": payload.ModalityID.String(),
				"main_value":  payload.MainValue,
				"recorded_at": payload.RecordedAt,
			},
		}
		if err := s.store(ctx, n); err != nil {
			s.metrics.RecordOperationFailure(ctx, "NotifyScoreUpdated")
			return err
		}
	}
	s.metrics.RecordOperationSuccess(ctx, "NotifyScoreUpdated")
	return nil
}

// NotifyRanked records one notification per ranked athlete.
func (s *NotificationService) NotifyRanked(ctx context.Context, payload leaderboardevents.RankedPayloadV1) error {
	s.metrics.RecordOperationAttempt(ctx, "NotifyRanked")

	for _, entry := range payload.Entries {
		n := &notificationdb.Notification{
			RecipientID: uuid.UUID(entry.AthleteID),
			Kind:        notificationdb.KindRanked,
			Payload: map[string]any{
				"event_id":    payload.EventID.String(),
				"modality_id": payload.ModalityID.String(),
				"field_key":   payload.FieldKey,
				"rank":        entry.Rank,
				"value":       entry.Value,
			},
		}
		if err := s.store(ctx, n); err != nil {
			s.metrics.RecordOperationFailure(ctx, "NotifyRanked")
			return err
		}
	}
	s.metrics.RecordOperationSuccess(ctx, "NotifyRanked")
	return nil
}

// ScheduleEventReminder queues a participant reminder run for a freshly
// published event. Events without a start time have nothing to remind about.
func (s *NotificationService) ScheduleEventReminder(ctx context.Context, payload eventevents.EventPublishedPayloadV1) error {
	if s.queue == nil || payload.StartsAt == nil {
		return nil
	}
	s.metrics.RecordOperationAttempt(ctx, "ScheduleEventReminder")
	if err := s.queue.ScheduleEventReminder(ctx, uuid.UUID(payload.EventID), payload.Name, *payload.StartsAt); err != nil {
		s.metrics.RecordOperationFailure(ctx, "ScheduleEventReminder")
		return err
	}
	s.metrics.RecordOperationSuccess(ctx, "ScheduleEventReminder")
	return nil
}

// ListForRecipient returns a recipient's latest notifications.
func (s *NotificationService) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]notificationdb.Notification, error) {
	return s.repo.ListForRecipient(ctx, recipientID, limit)
}

func (s *NotificationService) store(ctx context.Context, n *notificationdb.Notification) error {
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	if s.queue == nil {
		return nil
	}
	if err := s.queue.EnqueueDispatch(ctx, n.ID); err != nil {
		// The row exists; a later sweep can requeue it.
		s.logger.WarnContext(ctx, "Notification stored but not queued",
			attr.UUID("notification_id", n.ID), attr.Error(err))
	}
	return nil
}
