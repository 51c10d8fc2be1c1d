// Package scoreservice implements the score module's application operations:
// template authoring, judge score submission, and participation tracking.
package scoreservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
	"github.com/placar-app/placar-backend/internal/results"

	scoreevents "github.com/placar-app/placar-backend/app/modules/score/domain/events"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreOperationResult is the envelope returned by score write operations.
type ScoreOperationResult = results.OperationResult[scoreevents.ScoreUpdatedPayloadV1, scoreevents.ScoreUpdateFailedPayloadV1]

// TeamRoster resolves the athletes enrolled for a team in a modality. The user
// module provides the implementation through an adapter.
type TeamRoster interface {
	TeamMemberIDs(ctx context.Context, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID) ([]sharedtypes.AthleteID, error)
}

// ScoreService implements the Service interface.
type ScoreService struct {
	repo     scoredb.Repository
	roster   TeamRoster
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	repo scoredb.Repository,
	roster TeamRoster,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoreService {
	return &ScoreService{
		repo:     repo,
		roster:   roster,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

// serviceWrapper adds tracing, metrics, logging, and panic recovery around an
// operation. Handled business failures come back as Failure payloads with a
// nil error; only infrastructure problems surface as errors.
func (s *ScoreService) serviceWrapper(
	ctx context.Context,
	operationName string,
	modalityID sharedtypes.ModalityID,
	op func(ctx context.Context) (ScoreOperationResult, error),
) (result ScoreOperationResult, err error) {
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

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.String("modality_id", modalityID.String()),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("modality_id", modalityID.String()),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = ScoreOperationResult{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx runs fn inside a transaction when a root DB is configured; unit
// tests with fakes pass nil and run without one.
func (s *ScoreService) runInTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// publish sends a payload on a topic, logging rather than failing the
// already-committed operation when the broker is unavailable.
func (s *ScoreService) publish(ctx context.Context, topic string, payload any) {
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
