// Package leaderboardservice computes placements from recorded scores and
// serves standings views, charts, and exports.
package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	scoredomain "github.com/placar-app/placar-backend/app/modules/score/domain"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreRow is the score module's view of one recorded result, as consumed by
// ranking runs.
type ScoreRow struct {
	ScoreID    sharedtypes.ScoreID
	AthleteID  sharedtypes.AthleteID
	MainValue  float64
	Form       map[string]string
	RecordedAt time.Time
}

// AttemptRow is one stored per-field value.
type AttemptRow struct {
	ScoreID        sharedtypes.ScoreID
	FieldKey       string
	Value          float64
	FormattedValue string
}

// ScoreStore is the read/write surface the leaderboard needs from the score
// module; an adapter over the score repository implements it.
type ScoreStore interface {
	ScoresForScope(ctx context.Context, scope sharedtypes.ScoreScope) ([]ScoreRow, error)
	FieldsForTemplate(ctx context.Context, templateID sharedtypes.TemplateID) ([]scoredomain.ScoringField, error)
	// ParticipationMap returns only explicitly stored flags; absent athletes
	// default to participating.
	ParticipationMap(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) (map[sharedtypes.AthleteID]bool, error)
	WriteRank(ctx context.Context, scoreID sharedtypes.ScoreID, fieldKey string, rank int, formatted string) error
	AttemptsForScores(ctx context.Context, scoreIDs []sharedtypes.ScoreID) ([]AttemptRow, error)
}

// LeaderboardService implements the ranking and standings operations.
type LeaderboardService struct {
	store    ScoreStore
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	store ScoreStore,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *LeaderboardService {
	return &LeaderboardService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// withTelemetry wraps an operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	modalityID sharedtypes.ModalityID,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("modality_id", modalityID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx), attr.Error(err))
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(err)
		return result, fmt.Errorf("%s: %w", operationName, err)
	}
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

func (s *LeaderboardService) publish(ctx context.Context, topic string, payload any) {
	if s.eventBus == nil {
		return
	}
	msg, err := eventbus.NewMessage(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal event payload",
			attr.String("topic", topic), attr.Error(err))
		return
	}
	if err := s.eventBus.Publish(topic, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", topic), attr.Error(err))
	}
}
