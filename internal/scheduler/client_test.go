package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerConfig struct {
	redisURL string
	queue    string
	interval time.Duration
}

func (c schedulerConfig) GetRedisURL() string             { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool       { return false }
func (c schedulerConfig) GetAsynqQueueName() string       { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int        { return 1 }
func (c schedulerConfig) GetSweepInterval() time.Duration { return c.interval }

func TestClientEnqueuesSweepTask(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := schedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "reminders"}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	requestedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := client.EnqueueReminderSweep(context.Background(), ReminderSweepPayload{RequestedAt: requestedAt}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("reminders")
	if err != nil {
		t.Fatalf("listing pending tasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending task, got %d", len(pending))
	}
	if pending[0].Type != TaskReminderSweep {
		t.Fatalf("expected %s task, got %s", TaskReminderSweep, pending[0].Type)
	}

	payload, err := ParseReminderSweepPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("parsing payload: %v", err)
	}
	if !payload.RequestedAt.Equal(requestedAt) {
		t.Fatalf("expected requestedAt %v, got %v", requestedAt, payload.RequestedAt)
	}
}

func TestClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(schedulerConfig{}); err == nil {
		t.Fatal("expected missing redis url to be rejected")
	}
}
