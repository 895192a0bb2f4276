package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	leadrepo "salesdesk_backend/internal/leads/repository"

	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/migrations"
	"salesdesk_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The tests in this file run against a real database because the invariants
// they cover live in SQL. Set TEST_DATABASE_URL to enable them.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, testDBConfig{url: url}, migrations.FS); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, `TRUNCATE customer_reminders, customer_notes, customers, leads, users CASCADE`); err != nil {
		t.Fatalf("failed to reset tables: %v", err)
	}
	return pool
}

type testDBConfig struct{ url string }

func (c testDBConfig) GetDatabaseURL() string { return c.url }

func seedLead(t *testing.T, pool *pgxpool.Pool, email *string) leadrepo.Lead {
	t.Helper()
	lead, err := leadrepo.New(pool).Create(context.Background(), leadrepo.CreateLeadParams{
		Name:     "Acme Corp",
		Email:    email,
		Source:   domain.SourceWebsite,
		Priority: domain.PriorityHigh,
		Rating:   domain.RatingHot,
		Score:    90,
	})
	if err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}
	return lead
}

func TestRecordAttemptKeepsCompletedReminderDone(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	customer, err := repo.Create(ctx, CreateCustomerParams{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	reminder, err := repo.AddReminder(ctx, customer.ID, "call back", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to add reminder: %v", err)
	}

	// Completed by hand between the due query and a failed delivery attempt.
	if _, err := repo.MarkReminderDone(ctx, customer.ID, reminder.ID); err != nil {
		t.Fatalf("failed to complete reminder: %v", err)
	}
	if err := repo.RecordAttempt(ctx, reminder.ID, false, 3); err != nil {
		t.Fatalf("failed to record attempt: %v", err)
	}

	reminders, err := repo.ListReminders(ctx, customer.ID)
	if err != nil {
		t.Fatalf("failed to list reminders: %v", err)
	}
	if len(reminders) != 1 || !reminders[0].Reminded {
		t.Fatalf("expected completed reminder to stay done, got %+v", reminders)
	}
	if reminders[0].Attempts != 1 {
		t.Fatalf("expected one recorded attempt, got %d", reminders[0].Attempts)
	}
}

func TestRecordAttemptMarksDoneWhenBudgetSpent(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	customer, err := repo.Create(ctx, CreateCustomerParams{Name: "Acme Corp"})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	reminder, err := repo.AddReminder(ctx, customer.ID, "call back", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to add reminder: %v", err)
	}

	if err := repo.RecordAttempt(ctx, reminder.ID, false, 2); err != nil {
		t.Fatalf("failed to record attempt: %v", err)
	}
	reminders, _ := repo.ListReminders(ctx, customer.ID)
	if reminders[0].Reminded {
		t.Fatal("expected reminder still open after first failed attempt")
	}

	if err := repo.RecordAttempt(ctx, reminder.ID, false, 2); err != nil {
		t.Fatalf("failed to record attempt: %v", err)
	}
	reminders, _ = repo.ListReminders(ctx, customer.ID)
	if !reminders[0].Reminded || reminders[0].Attempts != 2 {
		t.Fatalf("expected reminder done after spending the budget, got %+v", reminders[0])
	}
}

func TestConvertLeadIsIdempotent(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	email := "jane@example.com"
	lead := seedLead(t, pool, &email)

	first, existed, err := repo.ConvertLead(ctx, lead.ID, nil)
	if err != nil {
		t.Fatalf("failed to convert: %v", err)
	}
	if existed {
		t.Fatal("expected first conversion to be fresh")
	}

	second, existed, err := repo.ConvertLead(ctx, lead.ID, nil)
	if err != nil {
		t.Fatalf("expected repeated conversion to succeed, got %v", err)
	}
	if !existed || second.ID != first.ID {
		t.Fatalf("expected fold-back to customer %s, got %s (existed=%v)", first.ID, second.ID, existed)
	}
}

func TestConvertLeadFoldsBackOnDuplicateEmail(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	email := "shared@example.com"
	lead := seedLead(t, pool, &email)

	manual, err := repo.Create(ctx, CreateCustomerParams{Name: "Walk-in", Email: &email})
	if err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}

	customer, existed, err := repo.ConvertLead(ctx, lead.ID, nil)
	if err != nil {
		t.Fatalf("expected conversion to fold back, got %v", err)
	}
	if !existed || customer.ID != manual.ID {
		t.Fatalf("expected existing customer %s, got %s (existed=%v)", manual.ID, customer.ID, existed)
	}

	healed, err := leadrepo.New(pool).GetByID(ctx, lead.ID)
	if err != nil {
		t.Fatalf("failed to reload lead: %v", err)
	}
	if healed.Status != domain.StatusConverted {
		t.Fatalf("expected lead healed to Converted, got %s", healed.Status)
	}
}

func TestConvertLeadConcurrentCallsResolveToOneCustomer(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	email := "race@example.com"
	lead := seedLead(t, pool, &email)

	const callers = 4
	results := make([]struct {
		customer Customer
		existed  bool
		err      error
	}, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i].customer, results[i].existed, results[i].err = repo.ConvertLead(ctx, lead.ID, nil)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for _, res := range results {
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !res.existed {
			fresh++
		}
		if res.customer.ID != results[0].customer.ID {
			t.Fatalf("expected a single customer, got %s and %s", results[0].customer.ID, res.customer.ID)
		}
	}
	if fresh != 1 {
		t.Fatalf("expected exactly one fresh conversion, got %d", fresh)
	}
}

func TestConvertLeadRejectsLostLead(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	lead := seedLead(t, pool, nil)
	leads := leadrepo.New(pool)
	if _, _, err := leads.TransitionStatus(ctx, lead.ID, domain.StatusLost); err != nil {
		t.Fatalf("failed to mark lead lost: %v", err)
	}

	_, _, err := repo.ConvertLead(ctx, lead.ID, nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}
