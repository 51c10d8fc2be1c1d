package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Run starts the HTTP server, the watermill router, and every module, then
// blocks until ctx is cancelled and everything has shut down.
func (a *App) Run(ctx context.Context) error {
	a.httpServer = &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", slog.String("addr", a.Config.HTTP.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	routerErr := make(chan error, 1)
	go func() {
		if err := a.WatermillRouter.Run(ctx); err != nil {
			routerErr <- err
		}
	}()

	var wg sync.WaitGroup
	a.runModules(ctx, &wg)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case err := <-routerErr:
		return fmt.Errorf("watermill router failed: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	wg.Wait()
	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}

	for name, closer := range map[string]interface{ Close() error }{
		"auth":         a.AuthModule,
		"user":         a.UserModule,
		"score":        a.ScoreModule,
		"leaderboard":  a.LeaderboardModule,
		"event":        a.EventModule,
		"notification": a.NotificationModule,
		"payment":      a.PaymentModule,
	} {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s module close: %w", name, err))
		}
	}

	if err := a.WatermillRouter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("watermill router close: %w", err))
	}
	if err := a.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	if err := a.Observability.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
	}

	a.logger.Info("Shutdown complete")
	return errors.Join(errs...)
}
