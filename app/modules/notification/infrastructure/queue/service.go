// Package notificationqueue schedules notification delivery on River.
package notificationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/observability"
)

const queueName = "notifications"

// Enqueuer is the service surface the application layer needs.
type Enqueuer interface {
	EnqueueDispatch(ctx context.Context, notificationID uuid.UUID) error
	ScheduleEventReminder(ctx context.Context, eventID uuid.UUID, eventName string, startsAt time.Time) error
}

// Service runs the River client that delivers notifications.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.Metrics
}

var _ Enqueuer = (*Service)(nil)

// NewService creates the pgx pool and River client. River needs pgx rather
// than database/sql, so the pool is separate from the bun DB.
func NewService(
	ctx context.Context,
	dsn string,
	repo notificationdb.Repository,
	recipients RecipientSource,
	logger *slog.Logger,
	metrics observability.Metrics,
) (*Service, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewDispatchWorker(repo, logger))
	river.AddWorker(workers, NewReminderWorker(repo, recipients, logger))

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			queueName:          {MaxWorkers: 25},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.InfoContext(ctx, "Notification queue service initialized")
	return &Service{
		client:  client,
		pool:    pool,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// EnqueueDispatch schedules delivery of a stored notification. ByArgs
// uniqueness keeps a notification from being queued twice.
func (s *Service) EnqueueDispatch(ctx context.Context, notificationID uuid.UUID) error {
	s.metrics.RecordOperationAttempt(ctx, "EnqueueDispatch")

	_, err := s.client.Insert(ctx, DispatchJob{NotificationID: notificationID}, &river.InsertOpts{
		Queue: queueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "EnqueueDispatch")
		s.logger.ErrorContext(ctx, "Failed to enqueue notification dispatch",
			attr.UUID("notification_id", notificationID), attr.Error(err))
		return fmt.Errorf("failed to enqueue dispatch job: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "EnqueueDispatch")
	return nil
}

// ScheduleEventReminder queues a reminder fan-out one day ahead of the
// event's start, or immediately when the event is closer than that.
func (s *Service) ScheduleEventReminder(ctx context.Context, eventID uuid.UUID, eventName string, startsAt time.Time) error {
	s.metrics.RecordOperationAttempt(ctx, "ScheduleEventReminder")

	runAt := startsAt.Add(-24 * time.Hour)
	if runAt.Before(time.Now()) {
		runAt = time.Now()
	}
	_, err := s.client.Insert(ctx, ReminderJob{
		EventID:   eventID,
		EventName: eventName,
		StartsAt:  startsAt,
	}, &river.InsertOpts{
		Queue:       queueName,
		ScheduledAt: runAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "ScheduleEventReminder")
		s.logger.ErrorContext(ctx, "Failed to schedule event reminder",
			attr.UUID("event_id", eventID), attr.Error(err))
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "ScheduleEventReminder")
	return nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Notification queue service started")
	return nil
}

// Stop stops the River client and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Notification queue service stopped")
	return nil
}
