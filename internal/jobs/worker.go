package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/spec-kit/access-request-service/internal/config"
	"github.com/spec-kit/access-request-service/internal/repository"
)

// Worker wraps the asynq server and periodic scheduler.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *zap.Logger
}

// NewWorker bootstraps the job server with all handlers registered and the
// recurring expiry sweep scheduled.
func NewWorker(cfg *config.Config, perms repository.PermissionRepository, logger *zap.Logger) (*Worker, error) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: cfg.Jobs.Concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(TaskTypeExpirySweep, NewExpirySweeper(perms, logger))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	sweepTask, err := NewExpirySweepTask(ExpirySweepPayload{})
	if err != nil {
		return nil, err
	}
	spec := fmt.Sprintf("@every %s", cfg.Jobs.ExpirySweepInterval())
	if _, err := scheduler.Register(spec, sweepTask, asynq.Queue(QueueDefault)); err != nil {
		return nil, err
	}

	return &Worker{server: server, mux: mux, scheduler: scheduler, logger: logger}, nil
}

// Run processes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.scheduler.Start(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()

	select {
	case <-ctx.Done():
		w.scheduler.Shutdown()
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		w.scheduler.Shutdown()
		return err
	}
}
