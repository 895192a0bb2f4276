package scheduler

import (
	"context"
	"time"

	"salesdesk_backend/platform/clock"
	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/logger"
)

// SweepDispatcher enqueues a reminder sweep task on every tick of the
// configured interval. Running it alongside the worker gives the at-least-
// once delivery loop: due reminders are picked up on the next tick even if
// a previous sweep or the process died mid-run.
type SweepDispatcher struct {
	client   *Client
	clk      clock.Clock
	interval time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(cfg config.SchedulerConfig, clk clock.Clock, log *logger.Logger) (*SweepDispatcher, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.GetSweepInterval()
	if interval <= 0 {
		interval = time.Minute
	}

	return &SweepDispatcher{
		client:   client,
		clk:      clk,
		interval: interval,
		log:      log,
	}, nil
}

func (d *SweepDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		payload := ReminderSweepPayload{RequestedAt: d.clk.Now()}
		if err := d.client.EnqueueReminderSweep(ctx, payload); err != nil {
			d.log.Warn("reminder sweep enqueue failed", "error", err)
		}
	}
}
