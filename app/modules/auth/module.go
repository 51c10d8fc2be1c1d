package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	authservice "github.com/placar-app/placar-backend/app/modules/auth/application"
	authhandlers "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/placar-app/placar-backend/app/modules/auth/infrastructure/jwt"
	"github.com/placar-app/placar-backend/config"
	"github.com/placar-app/placar-backend/internal/observability"
)

// Login attempts allowed per IP: sustained rate and burst.
const (
	loginRateLimit = rate.Limit(1)
	loginBurst     = 5
)

// Module bundles the auth service and its HTTP surface.
type Module struct {
	AuthService *authservice.AuthService
	Provider    authjwt.Provider
	config      *config.Config
	obs         *observability.Observability
	cancelFunc  context.CancelFunc
}

// NewAuthModule wires login, refresh, and the token provider other modules'
// middleware uses.
func NewAuthModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	accounts authservice.AccountReader,
	httpRouter chi.Router,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "Initializing auth module")

	provider := authjwt.NewProvider(cfg.JWT.Secret)
	metrics := observability.NewPrometheusMetrics(obs.Registry, "auth")

	service := authservice.NewAuthService(accounts, provider, cfg.JWT.DefaultTTL, obs.Logger, metrics)

	handlers := authhandlers.NewAuthHandlers(service, obs.Logger)
	handlers.RegisterRoutes(httpRouter, authhandlers.NewIPRateLimiter(loginRateLimit, loginBurst))

	return &Module{
		AuthService: service,
		Provider:    provider,
		config:      cfg,
		obs:         obs,
	}, nil
}

// Authenticator returns the Bearer-token middleware bound to this module's
// provider.
func (m *Module) Authenticator() func(http.Handler) http.Handler {
	return authhandlers.Authenticator(m.Provider)
}

func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.obs.Logger.InfoContext(ctx, "Starting auth module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.obs.Logger.Info("Auth module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.obs.Logger.Info("Auth module stopped")
	return nil
}
