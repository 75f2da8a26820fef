package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/access-request-service/internal/config"
	"github.com/spec-kit/access-request-service/internal/jobs"
	"github.com/spec-kit/access-request-service/internal/observability"
	"github.com/spec-kit/access-request-service/internal/persistence"
	"github.com/spec-kit/access-request-service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	permissionRepo := repository.NewPermissionRepository(pg.PoolHandle())

	w, err := jobs.NewWorker(cfg, permissionRepo, logger)
	if err != nil {
		logger.Fatal("failed to build worker", zap.Error(err))
	}

	logger.Info("worker starting", zap.Int("concurrency", cfg.Jobs.Concurrency))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker stopped", zap.Error(err))
	}
	logger.Info("worker stopped")
}
