// Package observability wires logging, metrics, and tracing for the service.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects which observability components are enabled.
type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	MetricsAddress string
	Level          slog.Level
}

// Observability bundles the logger, metrics registry, and tracer provider that
// get threaded through every module.
type Observability struct {
	Logger         *slog.Logger
	Registry       *prometheus.Registry
	TracerProvider trace.TracerProvider

	metricsServer *http.Server
	traceProvider *sdktrace.TracerProvider
}

// Init builds the observability stack. The metrics endpoint is only started
// when MetricsAddress is set, so tests can pass an empty config.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})).
		With(
			slog.String("service", cfg.ServiceName),
			slog.String("env", cfg.Environment),
			slog.String("version", cfg.Version),
		)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tp := sdktrace.NewTracerProvider()

	obs := &Observability{
		Logger:         logger,
		Registry:       registry,
		TracerProvider: tp,
		traceProvider:  tp,
	}

	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		obs.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := obs.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
		logger.Info("metrics endpoint listening", slog.String("address", cfg.MetricsAddress))
	}

	return obs, nil
}

// NewForTests returns a no-op observability bundle for unit tests.
func NewForTests() *Observability {
	return &Observability{
		Logger:         slog.New(slog.DiscardHandler),
		Registry:       prometheus.NewRegistry(),
		TracerProvider: noop.NewTracerProvider(),
	}
}

// Shutdown flushes traces and stops the metrics endpoint.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.metricsServer != nil {
		if err := o.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if o.traceProvider != nil {
		if err := o.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
