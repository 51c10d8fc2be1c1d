package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	notificationservice "github.com/placar-app/placar-backend/app/modules/notification/application"
	notificationhandlers "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/handlers"
	notificationqueue "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/queue"
	notificationdb "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/repositories"
	notificationrouter "github.com/placar-app/placar-backend/app/modules/notification/infrastructure/router"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/attr"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles storage, the River delivery queue, and the event subscribers.
type Module struct {
	EventBus            eventbus.EventBus
	NotificationService *notificationservice.NotificationService
	Queue               *notificationqueue.Service
	Router              *notificationrouter.NotificationRouter
	config              *config.Config
	obs                 *observability.Observability
	cancelFunc          context.CancelFunc
}

// NewNotificationModule wires notifications end to end: watermill subscribers
// feed the service, the service stores rows and enqueues River dispatch jobs.
func NewNotificationModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	wmRouter *message.Router,
	httpRouter chi.Router,
	recipients notificationqueue.RecipientSource,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing notification module")

	repo := &notificationdb.NotificationDBImpl{DB: db}
	metrics := observability.NewPrometheusMetrics(obs.Registry, "notification")

	queue, err := notificationqueue.NewService(ctx, cfg.Postgres.DSN, repo, recipients, obs.Logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification queue: %w", err)
	}

	service := notificationservice.NewNotificationService(repo, queue, obs.Logger, metrics)

	router := notificationrouter.NewNotificationRouter(obs.Logger, wmRouter, eventBus, service)
	if err := router.Configure(obs.Registry); err != nil {
		return nil, fmt.Errorf("failed to configure notification router: %w", err)
	}

	handlers := notificationhandlers.NewNotificationHandlers(service, obs.Logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		EventBus:            eventBus,
		NotificationService: service,
		Queue:               queue,
		Router:              router,
		config:              cfg,
		obs:                 obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting notification module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.Queue.Start(ctx); err != nil {
		m.obs.Logger.ErrorContext(ctx, "Failed to start notification queue", attr.Error(err))
		return
	}

	<-ctx.Done()

	stopCtx := context.WithoutCancel(ctx)
	if err := m.Queue.Stop(stopCtx); err != nil {
		m.obs.Logger.Error("Failed to stop notification queue", attr.Error(err))
	}
	m.obs.Logger.Info("Notification module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Notification module stopped")
	return nil
}
