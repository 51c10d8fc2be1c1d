// Package notificationrouter subscribes the notification service to score,
// ranking, and event lifecycle events.
package notificationrouter

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	eventevents "github.com/placar-app/placar-backend/app/modules/event/domain/events"
	leaderboardevents "github.com/placar-app/placar-backend/app/modules/leaderboard/domain/events"
	notificationservice "github.com/placar-app/placar-backend/app/modules/notification/application"
	scoreevents "github.com/placar-app/placar-backend/app/modules/score/domain/events"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/eventbus"
)

// NotificationRouter owns the watermill handlers feeding the notification
// service.
type NotificationRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	service    *notificationservice.NotificationService
}

func NewNotificationRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	service *notificationservice.NotificationService,
) *NotificationRouter {
	return &NotificationRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		service:    service,
	}
}

// Configure adds the router middleware and registers the event handlers.
func (r *NotificationRouter) Configure(registry *prometheus.Registry) error {
	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		builder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	handlers := map[string]message.NoPublishHandlerFunc{
		scoreevents.ScoreUpdatedV1:   r.handleScoreUpdated,
		leaderboardevents.RankedV1:   r.handleRanked,
		eventevents.EventPublishedV1: r.handleEventPublished,
	}
	for topic, handler := range handlers {
		r.Router.AddNoPublisherHandler(
			fmt.Sprintf("notification.%s", topic),
			topic,
			r.subscriber,
			handler,
		)
	}
	return nil
}

func (r *NotificationRouter) handleScoreUpdated(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var payload scoreevents.ScoreUpdatedPayloadV1
	if err := eventbus.UnmarshalPayload(msg, &payload); err != nil {
		r.logger.Error("Dropping malformed score.updated payload", attr.Error(err))
		return nil
	}
	return r.service.NotifyScoreUpdated(ctx, payload)
}

func (r *NotificationRouter) handleEventPublished(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var payload eventevents.EventPublishedPayloadV1
	if err := eventbus.UnmarshalPayload(msg, &payload); err != nil {
		r.logger.Error("Dropping malformed event.published payload", attr.Error(err))
		return nil
	}
	return r.service.ScheduleEventReminder(ctx, payload)
}

func (r *NotificationRouter) handleRanked(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var payload leaderboardevents.RankedPayloadV1
	if err := eventbus.UnmarshalPayload(msg, &payload); err != nil {
		r.logger.Error("Dropping malformed leaderboard.ranked payload", attr.Error(err))
		return nil
	}
	return r.service.NotifyRanked(ctx, payload)
}
