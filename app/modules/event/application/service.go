// Package eventservice manages events, modalities, and heats.
package eventservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// EventService implements the event module's operations.
type EventService struct {
	repo     eventdb.Repository
	schedule *ScheduleParser
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
}

// NewEventService creates a new EventService.
func NewEventService(
	repo eventdb.Repository,
	schedule *ScheduleParser,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *EventService {
	return &EventService{
		repo:     repo,
		schedule: schedule,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

// withTelemetry wraps an operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *EventService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
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

// publish sends a payload on a topic, logging rather than failing the
// already-committed operation when the broker is unavailable.
func (s *EventService) publish(ctx context.Context, topic string, payload any) {
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
