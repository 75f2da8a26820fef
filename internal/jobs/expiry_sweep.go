package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/spec-kit/access-request-service/internal/repository"
)

// ExpirySweeper deactivates grants that have passed their expiry bound.
type ExpirySweeper struct {
	perms  repository.PermissionRepository
	logger *zap.Logger
}

// NewExpirySweeper builds the sweeper.
func NewExpirySweeper(perms repository.PermissionRepository, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{perms: perms, logger: logger}
}

// ProcessTask handles a TaskTypeExpirySweep task.
func (s *ExpirySweeper) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ExpirySweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	swept, err := s.perms.DeactivateExpired(ctx, asOf)
	if err != nil {
		s.logger.Error("grant expiry sweep failed", zap.Error(err))
		return err
	}
	if swept > 0 {
		s.logger.Info("deactivated expired grants", zap.Int64("count", swept))
	}
	return nil
}
