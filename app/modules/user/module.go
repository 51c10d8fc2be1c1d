package user

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	userservice "github.com/placar-app/placar-backend/app/modules/user/application"
	userhandlers "github.com/placar-app/placar-backend/app/modules/user/infrastructure/handlers"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles the user service and its HTTP surface.
type Module struct {
	EventBus    eventbus.EventBus
	UserService userservice.Service
	Repository  userdb.Repository
	config      *config.Config
	obs         *observability.Observability
	cancelFunc  context.CancelFunc
}

// NewUserModule wires the user service onto the shared HTTP router.
func NewUserModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing user module")

	repo := &userdb.UserDBImpl{DB: db}
	metrics := observability.NewPrometheusMetrics(obs.Registry, "user")
	tracer := obs.TracerProvider.Tracer("user")

	service := userservice.NewUserService(repo, eventBus, obs.Logger, metrics, tracer)

	handlers := userhandlers.NewUserHandlers(service, obs.Logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		EventBus:    eventBus,
		UserService: service,
		Repository:  repo,
		config:      cfg,
		obs:         obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting user module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.Info("User module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("User module stopped")
	return nil
}
