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

	"github.com/Hamzaidb/repo-saas/internal/infrastructure/di"
	"github.com/Hamzaidb/repo-saas/internal/infrastructure/worker"
	"github.com/Hamzaidb/repo-saas/internal/interface/router"
	"github.com/Hamzaidb/repo-saas/internal/interface/server"
	"github.com/Hamzaidb/repo-saas/pkg/config"
	"github.com/Hamzaidb/repo-saas/pkg/logger"
	"github.com/Hamzaidb/repo-saas/pkg/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger setup
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Log.Level
	logConfig.Format = cfg.Log.Format
	if err := logger.Setup(logConfig); err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	// Telemetry
	provider, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:  cfg.App.Name,
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		slog.Error("failed to setup telemetry", "error", err)
		os.Exit(1)
	}

	// Initialize DI Container
	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	container.InitAuthUseCases()
	if err := container.InitStoreUseCases(); err != nil {
		slog.Error("failed to initialize store use cases", "error", err)
		container.Close()
		os.Exit(1)
	}
	handlers := di.NewHandlers(container)
	middlewares := di.NewMiddlewares(container)

	// Setup Server
	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Server.Port
	serverConfig.Debug = cfg.Server.Debug
	serverConfig.TrustedProxies = cfg.Security.TrustedProxies
	serverConfig.CORS.AllowOrigins = cfg.Security.CORSOrigins
	serverConfig.Security.EnableHSTS = cfg.Security.EnableHSTS
	srv := server.NewServer(serverConfig)

	router.NewRouter(srv.Echo(), handlers, middlewares, provider.MetricsHandler()).Setup()

	// Start background workers
	workerMgr := worker.NewManager()
	workerMgr.Register(worker.NewHealthCheckJob("postgres", container.PgClient.Health))
	workerMgr.Register(worker.NewHealthCheckJob("redis", container.RedisClient.Health))
	workerMgr.Register(worker.NewAuditRetentionJob(container.AuditLogRepo.DeleteOlderThan, worker.AuditRetentionJobConfig{
		RetentionDays: cfg.Audit.RetentionDays,
	}))
	workerMgr.Start()

	// Start server
	slog.Info("starting server", "addr", srv.Address())
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	workerMgr.Shutdown(10 * time.Second)

	if err := container.Close(); err != nil {
		slog.Error("failed to close container", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.Shutdown(shutdownCtx); err != nil {
		slog.Error("telemetry shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
