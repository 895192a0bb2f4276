package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	agentrepo "salesdesk_backend/internal/agents/repository"

	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/migrations"
	"salesdesk_backend/platform/db"

	"github.com/google/uuid"
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

func seedAgent(t *testing.T, pool *pgxpool.Pool, email string) agentrepo.Agent {
	t.Helper()
	agent, err := agentrepo.New(pool).Create(context.Background(), agentrepo.CreateAgentParams{
		Name:              "Sam Seller",
		Email:             email,
		PasswordHash:      "x",
		Role:              "sales",
		PerformanceRating: 4.0,
	})
	if err != nil {
		t.Fatalf("failed to seed agent: %v", err)
	}
	return agent
}

func TestReassignToUnknownAgentReturnsAgentNotFound(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	ctx := context.Background()

	lead, err := repo.Create(ctx, CreateLeadParams{
		Name:     "Acme Corp",
		Source:   domain.SourceWebsite,
		Priority: domain.PriorityHigh,
		Rating:   domain.RatingHot,
		Score:    90,
	})
	if err != nil {
		t.Fatalf("failed to create lead: %v", err)
	}

	ghost := uuid.New()
	_, _, err = repo.Reassign(ctx, lead.ID, &ghost)
	if !errors.Is(err, ErrAgentNotFound) {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}

	// The failed reassignment must leave the lead untouched.
	reloaded, err := repo.GetByID(ctx, lead.ID)
	if err != nil {
		t.Fatalf("failed to reload lead: %v", err)
	}
	if reloaded.AssignedTo != nil {
		t.Fatalf("expected lead still unassigned, got %v", reloaded.AssignedTo)
	}
}

func TestReassignMovesActiveLeadCounters(t *testing.T) {
	pool := newTestPool(t)
	repo := New(pool)
	agents := agentrepo.New(pool)
	ctx := context.Background()

	from := seedAgent(t, pool, "from@example.com")
	to := seedAgent(t, pool, "to@example.com")

	lead, err := repo.Create(ctx, CreateLeadParams{
		Name:       "Acme Corp",
		Source:     domain.SourceWebsite,
		Priority:   domain.PriorityHigh,
		Rating:     domain.RatingHot,
		Score:      90,
		AssignedTo: &from.ID,
	})
	if err != nil {
		t.Fatalf("failed to create lead: %v", err)
	}
	if err := agents.IncrementActiveLeads(ctx, from.ID); err != nil {
		t.Fatalf("failed to claim slot: %v", err)
	}

	updated, previous, err := repo.Reassign(ctx, lead.ID, &to.ID)
	if err != nil {
		t.Fatalf("failed to reassign: %v", err)
	}
	if previous == nil || *previous != from.ID {
		t.Fatalf("expected previous assignee %s, got %v", from.ID, previous)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != to.ID {
		t.Fatalf("expected new assignee %s, got %v", to.ID, updated.AssignedTo)
	}

	fromAfter, _ := agents.GetByID(ctx, from.ID)
	toAfter, _ := agents.GetByID(ctx, to.ID)
	if fromAfter.ActiveLeads != 0 || toAfter.ActiveLeads != 1 {
		t.Fatalf("expected counters 0/1, got %d/%d", fromAfter.ActiveLeads, toAfter.ActiveLeads)
	}
}
