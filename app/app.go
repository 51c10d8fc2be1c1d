// Package app assembles the modules into one process: shared database, event
// bus, watermill router, and HTTP surface.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/placar-app/placar-backend/app/modules/auth"
	authdomain "github.com/placar-app/placar-backend/app/modules/auth/domain"
	authhandlers "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/handlers"
	"github.com/placar-app/placar-backend/app/modules/event"
	"github.com/placar-app/placar-backend/app/modules/leaderboard"
	"github.com/placar-app/placar-backend/app/modules/notification"
	"github.com/placar-app/placar-backend/app/modules/payment"
	"github.com/placar-app/placar-backend/app/modules/score"
	"github.com/placar-app/placar-backend/app/modules/user"
	useradapters "github.com/placar-app/placar-backend/app/modules/user/infrastructure/adapters"
	userdb "github.com/placar-app/placar-backend/app/modules/user/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/eventbus"
	"github.com/placar-app/placar-backend/internal/observability"
)

// App owns every long-lived resource in the process.
type App struct {
	Config          *config.Config
	Observability   *observability.Observability
	Router          chi.Router
	WatermillRouter *message.Router
	EventBus        eventbus.EventBus

	AuthModule         *auth.Module
	UserModule         *user.Module
	ScoreModule        *score.Module
	LeaderboardModule  *leaderboard.Module
	EventModule        *event.Module
	NotificationModule *notification.Module
	PaymentModule      *payment.Module

	db         *bun.DB
	httpServer *http.Server
	logger     *slog.Logger
}

// NewApp builds the shared infrastructure and wires every module onto it.
// Auth routes stay public; everything else sits behind the bearer-token
// middleware, with payments additionally restricted to admins.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:    "placar-backend",
		Environment:    cfg.Observability.Environment,
		Version:        "1.0.0",
		MetricsAddress: cfg.Observability.MetricsAddress,
		Level:          slog.LevelInfo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger, "placar")
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		chimiddleware.Timeout(60*time.Second),
	)

	a := &App{
		Config:          cfg,
		Observability:   obs,
		Router:          router,
		WatermillRouter: wmRouter,
		EventBus:        eventBus,
		db:              db,
		logger:          logger,
	}

	// Auth needs an account lookup before the user module exists, so it gets
	// its own repository instance over the shared pool.
	accounts := useradapters.NewAccountAdapter(&userdb.UserDBImpl{DB: db})
	a.AuthModule, err = auth.NewAuthModule(ctx, cfg, obs, accounts, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth module: %w", err)
	}

	var initErr error
	router.Group(func(protected chi.Router) {
		protected.Use(a.AuthModule.Authenticator())

		a.UserModule, initErr = user.NewUserModule(ctx, cfg, obs, db, eventBus, protected)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize user module: %w", initErr)
			return
		}

		roster := useradapters.NewRosterAdapter(a.UserModule.Repository)
		a.ScoreModule, initErr = score.NewScoreModule(ctx, cfg, obs, db, roster, eventBus, protected)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize score module: %w", initErr)
			return
		}

		a.LeaderboardModule, initErr = leaderboard.NewLeaderboardModule(ctx, cfg, obs, a.ScoreModule.Repository, eventBus, protected)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize leaderboard module: %w", initErr)
			return
		}

		a.EventModule, initErr = event.NewEventModule(ctx, cfg, obs, db, eventBus, protected)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize event module: %w", initErr)
			return
		}

		recipients := useradapters.NewRecipientAdapter(a.UserModule.Repository)
		a.NotificationModule, initErr = notification.NewNotificationModule(ctx, cfg, obs, db, eventBus, wmRouter, protected, recipients)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize notification module: %w", initErr)
			return
		}

		adminOnly := protected.With(authhandlers.RequireRole(authdomain.RoleAdmin))
		a.PaymentModule, initErr = payment.NewPaymentModule(ctx, cfg, obs, db, adminOnly)
		if initErr != nil {
			initErr = fmt.Errorf("failed to initialize payment module: %w", initErr)
			return
		}
	})
	if initErr != nil {
		return nil, initErr
	}

	return a, nil
}

// DB returns the shared connection pool.
func (a *App) DB() *bun.DB {
	return a.db
}

func (a *App) runModules(ctx context.Context, wg *sync.WaitGroup) {
	type runnable interface {
		Run(ctx context.Context, wg *sync.WaitGroup)
	}
	for _, m := range []runnable{
		a.AuthModule,
		a.UserModule,
		a.ScoreModule,
		a.LeaderboardModule,
		a.EventModule,
		a.NotificationModule,
		a.PaymentModule,
	} {
		wg.Add(1)
		go m.Run(ctx, wg)
	}
}
