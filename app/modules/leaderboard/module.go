package leaderboard

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"

	leaderboardservice "github.com/placar-app/placar-backend/app/modules/leaderboard/application"
	leaderboardadapters "github.com/placar-app/placar-backend/app/modules/leaderboard/infrastructure/adapters"
	leaderboardhandlers "github.com/placar-app/placar-backend/app/modules/leaderboard/infrastructure/handlers"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles the ranking service and its HTTP surface.
type Module struct {
	EventBus           eventbus.EventBus
	LeaderboardService *leaderboardservice.LeaderboardService
	config             *config.Config
	obs                *observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule wires the ranking service over the score repository.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	scoreRepo scoredb.Repository,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing leaderboard module")

	store := leaderboardadapters.NewScoreStoreAdapter(scoreRepo)
	metrics := observability.NewPrometheusMetrics(obs.Registry, "leaderboard")
	tracer := obs.TracerProvider.Tracer("leaderboard")

	service := leaderboardservice.NewLeaderboardService(store, eventBus, obs.Logger, metrics, tracer)

	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, obs.Logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		EventBus:           eventBus,
		LeaderboardService: service,
		config:             cfg,
		obs:                obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.Info("Leaderboard module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Leaderboard module stopped")
	return nil
}
