package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskReminderSweep = "reminders.sweep"

// ReminderSweepPayload carries the time the sweep was requested, for
// diagnostics; the worker always sweeps at its own clock time.
type ReminderSweepPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewReminderSweepTask(payload ReminderSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderSweep, data), nil
}

func ParseReminderSweepPayload(task *asynq.Task) (ReminderSweepPayload, error) {
	var payload ReminderSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReminderSweepPayload{}, err
	}
	return payload, nil
}
