package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"startuphub/config"
	"startuphub/tasks"
)

// Run serves background tasks until ctx is cancelled. The cron scheduler enqueues the
// periodic expiry sweep through the same Redis queue.
func Run(ctx context.Context, cfg *config.Config) error {
	if !cfg.TasksEnabled() {
		return fmt.Errorf("REDIS_ADDR must be set to run workers")
	}
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	closeClient := tasks.Connect(cfg.RedisAddr)
	defer closeClient()

	sched, err := NewScheduler(cfg.CloseExpiredSpec, func() error {
		return tasks.NewTask(tasks.TypeCloseExpired, 0)
	})
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
	})
	mux := asynq.NewServeMux()
	tasks.Register(mux)

	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	log.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("workers started")

	<-ctx.Done()
	srv.Shutdown()
	log.Info().Msg("workers stopped")
	return nil
}
