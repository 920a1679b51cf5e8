package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/chart"
	"github.com/godilite/saneamento-dashboard/internal/config"
	"github.com/godilite/saneamento-dashboard/internal/loader"
	"github.com/godilite/saneamento-dashboard/internal/search"
	"github.com/godilite/saneamento-dashboard/internal/view"
	"github.com/godilite/saneamento-dashboard/internal/web"
	grpcsrv "github.com/godilite/saneamento-dashboard/pkg/grpc/server"

	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second

	// BackendHealthService is the gRPC health service name reporting whether
	// the REST backend answers.
	BackendHealthService = "saneamento-api"
)

// App is the dashboard process: the HTTP server rendering pages and the gRPC
// health endpoint.
type App struct {
	logger     *zap.Logger
	httpServer *http.Server
	grpcServer *grpcsrv.Server
	registry   *search.Registry
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(logger),
	)
	logger.Info("API client initialized", zap.String("base_url", client.BaseURL()))

	dataLoader := loader.NewDataLoader(client, logger)
	updater := view.NewUpdater(chart.NewFactory(logger), logger)
	registry := search.NewRegistry(dataLoader,
		search.WithWait(cfg.Search.Debounce),
		search.WithMinLength(cfg.Search.MinLength),
		search.WithSessionTTL(cfg.Search.SessionTTL),
		search.WithLogger(logger),
	)

	handlers := web.NewHandlers(dataLoader, updater, registry, client, logger)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.HTTPPort)),
		Handler:           web.NewRouter(handlers, logger),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithLogging(true),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	grpcServer.Watch(BackendHealthService, client.Ping)

	return &App{
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		registry:   registry,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting", zap.String("http_addr", a.httpServer.Addr))

	a.grpcServer.Start()

	serveErr := make(chan error, 1)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown error", zap.Error(err))
	}
	a.registry.Close()
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return runErr
}
