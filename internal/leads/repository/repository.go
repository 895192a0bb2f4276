package repository

import (
	"context"
	"errors"
	"time"

	"salesdesk_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("lead not found")
	ErrAgentNotFound     = errors.New("agent not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID         uuid.UUID
	Name       string
	Email      *string
	Phone      *string
	Company    *string
	Source     domain.Source
	Status     domain.Status
	Priority   domain.Priority
	Rating     domain.Rating
	Score      int
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const leadColumns = `id, name, email, phone, company, source, status, priority, rating, score, assigned_to, created_by, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Source, &l.Status,
		&l.Priority, &l.Rating, &l.Score, &l.AssignedTo, &l.CreatedBy, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

type CreateLeadParams struct {
	Name       string
	Email      *string
	Phone      *string
	Company    *string
	Source     domain.Source
	Priority   domain.Priority
	Rating     domain.Rating
	Score      int
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, company, source, status, priority, rating, score, assigned_to, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns,
		params.Name, params.Email, params.Phone, params.Company, string(params.Source),
		string(domain.StatusNew), string(params.Priority), string(params.Rating), params.Score,
		params.AssignedTo, params.CreatedBy,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// TransitionStatus moves a lead to a new status under a row lock, enforcing
// the pipeline rules and keeping the assignee's active_leads counter in step
// within the same transaction. Returns the updated lead and the old status.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, to domain.Status) (Lead, domain.Status, error) {
	var updated Lead
	var oldStatus domain.Status

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := lockLead(ctx, tx, id)
		if err != nil {
			return err
		}
		oldStatus = current.Status

		if !domain.CanTransition(current.Status, to) {
			return ErrInvalidTransition
		}

		row := tx.QueryRow(ctx,
			`UPDATE leads SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+leadColumns,
			id, string(to))
		updated, err = scanLead(row)
		if err != nil {
			return err
		}

		// Leaving the active pipeline frees the agent's slot.
		if current.AssignedTo != nil && current.Status.CountsTowardLoad() && !to.CountsTowardLoad() {
			return decrementActiveLeads(ctx, tx, *current.AssignedTo)
		}
		return nil
	})
	if err != nil {
		return Lead{}, oldStatus, err
	}
	return updated, oldStatus, nil
}

// Delete removes a lead and rolls its slot out of the assignee's counter when
// the lead was still active. Returns the deleted lead.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Lead, error) {
	var deleted Lead

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := lockLead(ctx, tx, id)
		if err != nil {
			return err
		}
		deleted = current

		if _, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
			return err
		}

		if current.AssignedTo != nil && current.Status.CountsTowardLoad() {
			return decrementActiveLeads(ctx, tx, *current.AssignedTo)
		}
		return nil
	})
	if err != nil {
		return Lead{}, err
	}
	return deleted, nil
}

// Reassign moves a lead to another agent (or to nobody), adjusting both
// counters in the same transaction so no inconsistent intermediate state is
// observable. Returns the updated lead and the previous assignee.
func (r *Repository) Reassign(ctx context.Context, id uuid.UUID, newAgent *uuid.UUID) (Lead, *uuid.UUID, error) {
	var updated Lead
	var previous *uuid.UUID

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := lockLead(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current.AssignedTo

		row := tx.QueryRow(ctx,
			`UPDATE leads SET assigned_to = $2, updated_at = now() WHERE id = $1 RETURNING `+leadColumns,
			id, newAgent)
		updated, err = scanLead(row)
		if isForeignKeyViolation(err) {
			return ErrAgentNotFound
		}
		if err != nil {
			return err
		}

		// Counters only track leads still in the active pipeline.
		if !current.Status.CountsTowardLoad() {
			return nil
		}
		if previous != nil {
			if err := decrementActiveLeads(ctx, tx, *previous); err != nil {
				return err
			}
		}
		if newAgent != nil {
			if err := incrementActiveLeads(ctx, tx, *newAgent); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Lead{}, nil, err
	}
	return updated, previous, nil
}

func lockLead(ctx context.Context, tx pgx.Tx, id uuid.UUID) (Lead, error) {
	row := tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func incrementActiveLeads(ctx context.Context, tx pgx.Tx, agentID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET active_leads = active_leads + 1, updated_at = now() WHERE id = $1`, agentID)
	return err
}

func decrementActiveLeads(ctx context.Context, tx pgx.Tx, agentID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE users SET active_leads = GREATEST(active_leads - 1, 0), updated_at = now() WHERE id = $1`, agentID)
	return err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
