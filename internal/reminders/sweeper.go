// Package reminders implements the periodic sweep that delivers due
// customer follow-up reminders.
package reminders

import (
	"context"
	"errors"
	"sync"
	"time"

	"salesdesk_backend/internal/customers/repository"
	"salesdesk_backend/internal/email"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/platform/clock"
	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/logger"

	"github.com/google/uuid"
)

var errNoRecipient = errors.New("no recipient address")

// Store is the slice of the customer repository the sweep needs.
type Store interface {
	DueReminders(ctx context.Context, now time.Time) ([]repository.DueReminder, error)
	RecordAttempt(ctx context.Context, id uuid.UUID, delivered bool, maxAttempts int) error
}

// Sweeper finds due reminders and attempts delivery. Each due reminder gets
// one delivery attempt per sweep and is marked done once delivered or once
// the attempt budget is spent, so a reminder is attempted at least once and
// never swept forever.
type Sweeper struct {
	store  Store
	sender email.Sender
	bus    events.Bus
	clk    clock.Clock
	cfg    config.ReminderConfig
	log    *logger.Logger

	mu sync.Mutex
}

func NewSweeper(store Store, sender email.Sender, bus events.Bus, clk clock.Clock, cfg config.ReminderConfig, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		sender: sender,
		bus:    bus,
		clk:    clk,
		cfg:    cfg,
		log:    log,
	}
}

// Sweep processes every reminder due at the current clock time. Overlapping
// invocations are skipped: only one sweep runs at a time. Delivery failures
// are logged and recorded, not returned; the returned error covers only
// store failures.
func (s *Sweeper) Sweep(ctx context.Context) error {
	if !s.mu.TryLock() {
		return nil
	}
	defer s.mu.Unlock()

	now := s.clk.Now()
	due, err := s.store.DueReminders(ctx, now)
	if err != nil {
		return err
	}

	var errs []error
	for _, reminder := range due {
		delivered := s.deliver(ctx, reminder)

		if err := s.store.RecordAttempt(ctx, reminder.ID, delivered, s.cfg.GetReminderMaxAttempts()); err != nil {
			errs = append(errs, err)
			continue
		}

		s.bus.Publish(ctx, events.ReminderDelivered{
			BaseEvent:  events.NewBaseEvent(),
			CustomerID: reminder.CustomerID,
			ReminderID: reminder.ID,
			Recipient:  s.recipient(reminder),
			Delivered:  delivered,
			RemindAt:   reminder.RemindAt,
		})
	}
	return errors.Join(errs...)
}

func (s *Sweeper) deliver(ctx context.Context, reminder repository.DueReminder) bool {
	recipient := s.recipient(reminder)
	if recipient == "" {
		s.log.DeliveryFailure(reminder.CustomerID.String(), reminder.ID.String(), recipient, errNoRecipient)
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.GetReminderDeliveryTimeout())
	defer cancel()

	if err := s.sender.SendReminder(sendCtx, recipient, reminder.CustomerName, reminder.Message, reminder.RemindAt); err != nil {
		s.log.DeliveryFailure(reminder.CustomerID.String(), reminder.ID.String(), recipient, err)
		return false
	}
	return true
}

// recipient resolves where the reminder goes: the customer's email when
// known, otherwise the configured fallback inbox.
func (s *Sweeper) recipient(reminder repository.DueReminder) string {
	if reminder.CustomerEmail != nil && *reminder.CustomerEmail != "" {
		return *reminder.CustomerEmail
	}
	return s.cfg.GetReminderFallbackRecipient()
}
