package event

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	eventservice "github.com/placar-app/placar-backend/app/modules/event/application"
	eventhandlers "github.com/placar-app/placar-backend/app/modules/event/infrastructure/handlers"
	eventdb "github.com/placar-app/placar-backend/app/modules/event/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles the event service and its HTTP surface.
type Module struct {
	EventBus     eventbus.EventBus
	EventService eventservice.Service
	Repository   eventdb.Repository
	config       *config.Config
	obs          *observability.Observability
	cancelFunc   context.CancelFunc
}

// NewEventModule wires the event service onto the shared HTTP router.
func NewEventModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing event module")

	repo := &eventdb.EventDBImpl{DB: db}
	metrics := observability.NewPrometheusMetrics(obs.Registry, "event")
	tracer := obs.TracerProvider.Tracer("event")
	schedule := eventservice.NewScheduleParser(eventservice.RealClock{})

	service := eventservice.NewEventService(repo, schedule, eventBus, obs.Logger, metrics, tracer)

	handlers := eventhandlers.NewEventHandlers(service, obs.Logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		EventBus:     eventBus,
		EventService: service,
		Repository:   repo,
		config:       cfg,
		obs:          obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting event module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.Info("Event module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Event module stopped")
	return nil
}
