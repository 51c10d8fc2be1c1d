package notificationqueue

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
)

type markSentRepo struct {
	notificationdb.Repository
	MarkSentFunc func(ctx context.Context, id uuid.UUID, at time.Time) error
}

func (f *markSentRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return f.MarkSentFunc(ctx, id, at)
}

func dispatchJob(id uuid.UUID) *river.Job[DispatchJob] {
	return &river.Job[DispatchJob]{Args: DispatchJob{NotificationID: id}}
}

func TestDispatchWorker_MarksSent(t *testing.T) {
	id := uuid.New()
	var gotID uuid.UUID
	repo := &markSentRepo{
		MarkSentFunc: func(ctx context.Context, nid uuid.UUID, at time.Time) error {
			gotID = nid
			assert.WithinDuration(t, time.Now(), at, 5*time.Second)
			return nil
		},
	}
	worker := NewDispatchWorker(repo, slog.New(slog.DiscardHandler))

	require.NoError(t, worker.Work(context.Background(), dispatchJob(id)))
	assert.Equal(t, id, gotID)
}

func TestDispatchWorker_AlreadySentIsSuccess(t *testing.T) {
	repo := &markSentRepo{
		MarkSentFunc: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			return notificationdb.ErrNotificationNotFound
		},
	}
	worker := NewDispatchWorker(repo, slog.New(slog.DiscardHandler))

	require.NoError(t, worker.Work(context.Background(), dispatchJob(uuid.New())))
}

func TestDispatchWorker_OtherErrorsRetry(t *testing.T) {
	boom := errors.New("db down")
	repo := &markSentRepo{
		MarkSentFunc: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			return boom
		},
	}
	worker := NewDispatchWorker(repo, slog.New(slog.DiscardHandler))

	require.ErrorIs(t, worker.Work(context.Background(), dispatchJob(uuid.New())), boom)
}
