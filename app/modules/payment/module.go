package payment

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	paymentservice "github.com/placar-app/placar-backend/app/modules/payment/application"
	paymenthandlers "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/handlers"
	paymentdb "github.com/placar-app/placar-backend/app/modules/payment/infrastructure/repositories"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Module bundles fee configuration and settlement tracking.
type Module struct {
	Service    *paymentservice.PaymentService
	Repository paymentdb.Repository
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

func NewPaymentModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger

	repo := &paymentdb.PaymentDBImpl{DB: db}
	metrics := observability.NewPrometheusMetrics(obs.Registry, "payment")

	service := paymentservice.NewPaymentService(repo, logger, metrics)

	handlers := paymenthandlers.NewPaymentHandlers(service, logger)
	handlers.RegisterRoutes(httpRouter)

	return &Module{
		Service:    service,
		Repository: repo,
		logger:     logger,
	}, nil
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Payment module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
