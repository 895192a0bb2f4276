// Package email delivers outbound notification mail over SMTP.
package email

import (
	"context"
	"fmt"
	"time"

	"salesdesk_backend/platform/config"
	"salesdesk_backend/platform/logger"
)

// Sender delivers notification emails.
type Sender interface {
	// SendReminder delivers a follow-up reminder for a customer.
	SendReminder(ctx context.Context, toEmail, customerName, message string, remindAt time.Time) error
}

// NewSender returns the configured sender. With email disabled, deliveries
// are logged instead of sent so the reminder sweep stays exercisable in
// development.
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		return &logSender{log: log}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

type logSender struct {
	log *logger.Logger
}

func (s *logSender) SendReminder(_ context.Context, toEmail, customerName, _ string, _ time.Time) error {
	s.log.Info("reminder_email_skipped",
		"to", toEmail,
		"customer", customerName,
	)
	return nil
}

func reminderSubject(customerName string) string {
	return fmt.Sprintf("Reminder: %s", customerName)
}
