package scheduler

import (
	"context"
	"fmt"

	"salesdesk_backend/internal/reminders"
	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper *reminders.Sweeper
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweeper *reminders.Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskReminderSweep, w.handleReminderSweep)

	return w, nil
}

func (w *Worker) handleReminderSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReminderSweepPayload(task)
	if err != nil {
		return err
	}

	w.log.Debug("reminder sweep started", "requested_at", payload.RequestedAt)
	return w.sweeper.Sweep(ctx)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
