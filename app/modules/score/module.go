package score

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	scoreservice "github.com/placar-app/placar-backend/app/modules/score/application"
	scorehandlers "github.com/placar-app/placar-backend/app/modules/score/infrastructure/handlers"
	scoredb "github.com/placar-app/placar-backend/app/modules/score/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles the scoring service and its HTTP surface.
type Module struct {
	EventBus     eventbus.EventBus
	ScoreService scoreservice.Service
	Repository   scoredb.Repository
	config       *config.Config
	obs          *observability.Observability
	cancelFunc   context.CancelFunc
}

// NewScoreModule wires the score service onto the shared HTTP router.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	roster scoreservice.TeamRoster,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing score module")

	repo := &scoredb.ScoreDBImpl{DB: db}
	metrics := observability.NewPrometheusMetrics(obs.Registry, "score")
	tracer := obs.TracerProvider.Tracer("score")

	scoreService := scoreservice.NewScoreService(repo, roster, eventBus, obs.Logger, metrics, tracer, db)

	handlers := scorehandlers.NewScoreHandlers(scoreService, obs.Logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		EventBus:     eventBus,
		ScoreService: scoreService,
		Repository:   repo,
		config:       cfg,
		obs:          obs,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.Info("Score module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Score module stopped")
	return nil
}
