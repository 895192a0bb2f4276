package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("agent not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Agent is a sales-capable user eligible to receive lead assignments.
type Agent struct {
	ID                uuid.UUID
	Name              string
	Email             string
	Role              string
	Status            string
	PerformanceRating float64
	ActiveLeads       int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const agentColumns = `id, name, email, role, status, performance_rating, active_leads, created_at, updated_at`

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Role, &a.Status,
		&a.PerformanceRating, &a.ActiveLeads, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

type CreateAgentParams struct {
	Name              string
	Email             string
	PasswordHash      string
	Role              string
	PerformanceRating float64
}

func (r *Repository) Create(ctx context.Context, params CreateAgentParams) (Agent, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, performance_rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+agentColumns,
		params.Name, params.Email, params.PasswordHash, params.Role, params.PerformanceRating,
	)

	agent, err := scanAgent(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Agent{}, ErrDuplicateEmail
		}
		return Agent{}, err
	}
	return agent, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+agentColumns+` FROM users WHERE id = $1`, id)
	agent, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, ErrNotFound
	}
	return agent, err
}

func (r *Repository) List(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+agentColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// ListAssignable returns every active agent whose role can receive leads.
// Threshold filtering and preference ordering happen in the pool, so the
// selection algorithm stays testable without a database.
func (r *Repository) ListAssignable(ctx context.Context) ([]Agent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+agentColumns+`
		FROM users
		WHERE role IN ('sales', 'trainee') AND status = 'active'
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// IncrementActiveLeads bumps the agent's derived lead counter by one.
// The single-statement update is atomic, so concurrent lead operations
// against the same agent cannot lose updates.
func (r *Repository) IncrementActiveLeads(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET active_leads = active_leads + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementActiveLeads lowers the agent's derived lead counter by one,
// clamping at zero.
func (r *Repository) DecrementActiveLeads(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET active_leads = GREATEST(active_leads - 1, 0), updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
