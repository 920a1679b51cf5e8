package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/godilite/saneamento-dashboard/internal/config"
	"github.com/godilite/saneamento-dashboard/internal/devapi"
	"github.com/godilite/saneamento-dashboard/internal/repository"
	"github.com/godilite/saneamento-dashboard/internal/service"
	dbbuilder "github.com/godilite/saneamento-dashboard/pkg/database"

	"go.uber.org/zap"
)

// DevAPI is the sqlite-backed REST backend used for local development.
type DevAPI struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	httpServer *http.Server
}

// NewDevAPI opens and seeds the database and builds the REST server.
func NewDevAPI(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*DevAPI, error) {
	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DevAPI.DBDriver),
		dbbuilder.WithDataSource(cfg.DevAPI.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DevAPI.DBPath))

	if err := repository.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := repository.Seed(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	repo := repository.NewSaneamentoRepository(dbPool)
	svc := service.NewSaneamentoService(repo, logger)
	handlers := devapi.NewHandlers(svc, logger)

	return &DevAPI{
		logger: logger,
		dbPool: dbPool,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.DevAPI.Port)),
			Handler:           devapi.NewRouter(handlers, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Handler exposes the REST router.
func (d *DevAPI) Handler() http.Handler {
	return d.httpServer.Handler
}

// Close releases the database pool.
func (d *DevAPI) Close() error {
	return d.dbPool.Close()
}

// Run serves until a shutdown signal is received.
func (d *DevAPI) Run() error {
	d.logger.Info("dev API starting", zap.String("addr", d.httpServer.Addr))

	serveErr := make(chan error, 1)
	go func() {
		if err := d.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	d.logger.Info("dev API shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := d.httpServer.Shutdown(ctx); err != nil {
		d.logger.Error("http shutdown error", zap.Error(err))
	}
	if err := d.Close(); err != nil {
		d.logger.Error("database shutdown error", zap.Error(err))
	}

	_ = d.logger.Sync()
	return runErr
}
