package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/CameronXie/order-gateway/internal/api/rest"
	"github.com/CameronXie/order-gateway/internal/api/rest/handlers"
	"github.com/CameronXie/order-gateway/internal/api/rest/middlewares"
	"github.com/CameronXie/order-gateway/internal/config"
	"github.com/CameronXie/order-gateway/internal/metrics"
	"github.com/CameronXie/order-gateway/internal/statestore"
	"github.com/CameronXie/order-gateway/internal/tracing"
	"github.com/CameronXie/order-gateway/internal/version"
)

const (
	MetricsNamespace = "order_gateway"

	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 10 * time.Second
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("version", version.Version),
	)

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		logger.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("api_serve_failed", "error", err)
		os.Exit(1)
	}
}

// run serves the gateway until SIGINT or SIGTERM, then drains in-flight requests and flushes spans.
func run(cfg *config.Config, logger *slog.Logger) error {
	tracer, err := tracing.NewProvider(
		tracing.Config{
			Enabled:           cfg.TracingEnabled,
			ServiceName:       cfg.ServiceName,
			RemoteServiceName: cfg.StateStoreName,
			ZipkinEndpoint:    cfg.ZipkinEndpoint,
		},
		logger,
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newHandler(cfg, tracer, metrics.New(MetricsNamespace), logger),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listening", "addr", server.Addr, "state_url", cfg.StateURL(), "tracing", cfg.TracingEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("api_stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		return errors.Join(server.Shutdown(shutdownCtx), tracer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}

// newHandler wires the state store client, order routes and middleware chain.
func newHandler(cfg *config.Config, tracer *tracing.Provider, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	httpClient := &http.Client{
		Transport: tracer.Transport(m.InstrumentTransport(http.DefaultTransport)),
	}

	store := statestore.NewClient(
		cfg.StateURL(),
		httpClient,
		statestore.WithTimeout(cfg.OutboundTimeout),
		statestore.WithRequestHook(middlewares.PropagateRequestID),
	)

	orderHandler := handlers.NewOrderHandler(store, logger)
	mux := rest.NewMuxWithHandlers(&rest.RouterConfig{
		GetOrderHandler:    http.HandlerFunc(orderHandler.GetOrder),
		SubmitOrderHandler: http.HandlerFunc(orderHandler.SubmitOrder),
		HealthHandler:      handlers.NewHealthHandler(),
		MetricsHandler:     m.Handler(),
		RouteMiddlewares:   []middlewares.Middleware{middlewares.NewMetricsMiddleware(m)},
	})

	return tracer.Handler(
		middlewares.Chain(
			mux,
			middlewares.NewRequestIDMiddleware(),
			middlewares.NewAccessLogMiddleware(logger),
			middlewares.NewRecoveryMiddleware(logger),
		),
		cfg.ServiceName,
	)
}
