package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/riot-collector/internal/api"
	"github.com/dom/riot-collector/internal/collector"
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/logging"
	"github.com/dom/riot-collector/internal/repository/postgres"
	"github.com/dom/riot-collector/internal/scheduler"
	"github.com/dom/riot-collector/internal/scraper"
	"github.com/dom/riot-collector/internal/service"
	"github.com/dom/riot-collector/internal/websocket"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL, gormLogger.Warn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Upstream sources
	client := scraper.NewClient(cfg.HTTP, logger)
	src := scraper.New(client, scraper.NewEndpoints(cfg.Sources), logger)
	pipeline := collector.New(src, repos, cfg.PersistConcurrency, logger)

	// Initialize WebSocket hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, src, pipeline, hub, cfg, logger)

	// Release job
	sched := scheduler.New(logger)
	if _, err := sched.AddJob(cfg.ReleaseJobID, cfg.ReleaseCron, func(ctx context.Context) {
		if _, err := services.Release.Release(ctx); err != nil {
			logger.Error("scheduled release failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule release: %w", err)
	}
	sched.Start()

	// Initialize router
	router := api.NewRouter(services, hub, repos, sched, cfg, logger)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // manual releases answer when done
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("release_cron", cfg.ReleaseCron))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("release job did not finish", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	hub.Stop()

	logger.Info("server stopped")
	return nil
}
