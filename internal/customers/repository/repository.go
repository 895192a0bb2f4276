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
	ErrNotFound          = errors.New("customer not found")
	ErrLeadNotFound      = errors.New("lead not found")
	ErrDuplicateEmail    = errors.New("customer email already exists")
	ErrInvalidTransition = errors.New("lead cannot be converted")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Customer struct {
	ID          uuid.UUID
	Name        string
	Email       *string
	Phone       *string
	Company     *string
	Source      *string
	CreatedFrom *uuid.UUID
	AssignedTo  *uuid.UUID
	ConvertedBy *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Note struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	AuthorID   *uuid.UUID
	Body       string
	CreatedAt  time.Time
}

type Reminder struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Message    string
	RemindAt   time.Time
	Reminded   bool
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DueReminder is a reminder joined with the customer details needed to
// deliver it.
type DueReminder struct {
	Reminder
	CustomerName  string
	CustomerEmail *string
}

const customerColumns = `id, name, email, phone, company, source, created_from, assigned_to, converted_by, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Source,
		&c.CreatedFrom, &c.AssignedTo, &c.ConvertedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type CreateCustomerParams struct {
	Name       string
	Email      *string
	Phone      *string
	Company    *string
	Source     *string
	AssignedTo *uuid.UUID
}

// Create inserts a manually registered customer (no originating lead).
func (r *Repository) Create(ctx context.Context, params CreateCustomerParams) (Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, company, source, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		params.Name, params.Email, params.Phone, params.Company, params.Source, params.AssignedTo,
	)
	customer, err := scanCustomer(row)
	if isUniqueViolation(err) {
		return Customer{}, ErrDuplicateEmail
	}
	return customer, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	customer, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return customer, err
}

func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// ConvertLead turns a lead into a customer in a single transaction: the lead
// row is locked, the customer is inserted from the lead's snapshot, the lead
// is marked Converted, and the assignee's active_leads counter is released.
//
// The operation is idempotent. A lead already converted, or whose email
// already identifies a customer, folds back to that existing customer; the
// second return value reports whether the customer pre-existed. Concurrent
// duplicate conversions resolve through the unique indexes on created_from
// and email.
func (r *Repository) ConvertLead(ctx context.Context, leadID uuid.UUID, convertedBy *uuid.UUID) (Customer, bool, error) {
	customer, existed, err := r.convertLead(ctx, leadID, convertedBy)
	if isUniqueViolation(err) {
		// A concurrent insert won the race on created_from or email. A second
		// pass finds the winner inside the transaction and folds back to it.
		return r.convertLead(ctx, leadID, convertedBy)
	}
	return customer, existed, err
}

func (r *Repository) convertLead(ctx context.Context, leadID uuid.UUID, convertedBy *uuid.UUID) (Customer, bool, error) {
	var customer Customer
	var existed bool

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		lead, err := lockLead(ctx, tx, leadID)
		if err != nil {
			return err
		}

		// An existing customer wins regardless of the lead's recorded status;
		// the status is healed if it drifted.
		existing, err := findByLeadTx(ctx, tx, leadID)
		if err == nil {
			customer, existed = existing, true
			return markLeadConverted(ctx, tx, lead)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// A Converted lead without a customer record is repaired by inserting
		// one; anything else must still be allowed to reach Converted.
		if lead.status != domain.StatusConverted && !domain.CanTransition(lead.status, domain.StatusConverted) {
			return ErrInvalidTransition
		}

		if lead.email != nil {
			existing, err := findByEmailTx(ctx, tx, *lead.email)
			if err == nil {
				customer, existed = existing, true
				return markLeadConverted(ctx, tx, lead)
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}

		row := tx.QueryRow(ctx, `
			INSERT INTO customers (name, email, phone, company, source, created_from, assigned_to, converted_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+customerColumns,
			lead.name, lead.email, lead.phone, lead.company, lead.source, leadID, lead.assignedTo, convertedBy,
		)
		customer, err = scanCustomer(row)
		if err != nil {
			return err
		}

		return markLeadConverted(ctx, tx, lead)
	})
	if err != nil {
		return Customer{}, false, err
	}
	return customer, existed, nil
}

// leadSnapshot is the slice of a lead row the conversion needs.
type leadSnapshot struct {
	id         uuid.UUID
	name       string
	email      *string
	phone      *string
	company    *string
	source     string
	status     domain.Status
	assignedTo *uuid.UUID
}

func lockLead(ctx context.Context, tx pgx.Tx, id uuid.UUID) (leadSnapshot, error) {
	var l leadSnapshot
	err := tx.QueryRow(ctx, `
		SELECT id, name, email, phone, company, source, status, assigned_to
		FROM leads WHERE id = $1 FOR UPDATE`, id,
	).Scan(&l.id, &l.name, &l.email, &l.phone, &l.company, &l.source, &l.status, &l.assignedTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return leadSnapshot{}, ErrLeadNotFound
	}
	return l, err
}

func markLeadConverted(ctx context.Context, tx pgx.Tx, lead leadSnapshot) error {
	if lead.status == domain.StatusConverted {
		return nil
	}
	if _, err := tx.Exec(ctx,
		`UPDATE leads SET status = $2, updated_at = now() WHERE id = $1`,
		lead.id, string(domain.StatusConverted)); err != nil {
		return err
	}
	if lead.assignedTo != nil && lead.status.CountsTowardLoad() {
		_, err := tx.Exec(ctx,
			`UPDATE users SET active_leads = GREATEST(active_leads - 1, 0), updated_at = now() WHERE id = $1`,
			*lead.assignedTo)
		return err
	}
	return nil
}

func findByLeadTx(ctx context.Context, tx pgx.Tx, leadID uuid.UUID) (Customer, error) {
	row := tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE created_from = $1`, leadID)
	return scanCustomer(row)
}

func findByEmailTx(ctx context.Context, tx pgx.Tx, email string) (Customer, error) {
	row := tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email)
	return scanCustomer(row)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// AddNote appends a note to a customer's timeline.
func (r *Repository) AddNote(ctx context.Context, customerID uuid.UUID, authorID *uuid.UUID, body string) (Note, error) {
	var n Note
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customer_notes (customer_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, customer_id, author_id, body, created_at`,
		customerID, authorID, body,
	).Scan(&n.ID, &n.CustomerID, &n.AuthorID, &n.Body, &n.CreatedAt)
	if isForeignKeyViolation(err) {
		return Note{}, ErrNotFound
	}
	return n, err
}

func (r *Repository) ListNotes(ctx context.Context, customerID uuid.UUID) ([]Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, author_id, body, created_at
		FROM customer_notes WHERE customer_id = $1 ORDER BY created_at`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]Note, 0)
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

const reminderColumns = `id, customer_id, message, remind_at, reminded, attempts, created_at, updated_at`

func scanReminder(row pgx.Row) (Reminder, error) {
	var rem Reminder
	err := row.Scan(&rem.ID, &rem.CustomerID, &rem.Message, &rem.RemindAt,
		&rem.Reminded, &rem.Attempts, &rem.CreatedAt, &rem.UpdatedAt)
	return rem, err
}

// AddReminder schedules a follow-up reminder for a customer.
func (r *Repository) AddReminder(ctx context.Context, customerID uuid.UUID, message string, remindAt time.Time) (Reminder, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customer_reminders (customer_id, message, remind_at)
		VALUES ($1, $2, $3)
		RETURNING `+reminderColumns,
		customerID, message, remindAt,
	)
	reminder, err := scanReminder(row)
	if isForeignKeyViolation(err) {
		return Reminder{}, ErrNotFound
	}
	return reminder, err
}

func (r *Repository) ListReminders(ctx context.Context, customerID uuid.UUID) ([]Reminder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reminderColumns+`
		FROM customer_reminders WHERE customer_id = $1 ORDER BY remind_at`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := make([]Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

// DueReminders returns unreminded reminders whose remind_at has passed,
// joined with the customer contact details, oldest first.
func (r *Repository) DueReminders(ctx context.Context, now time.Time) ([]DueReminder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.customer_id, r.message, r.remind_at, r.reminded, r.attempts, r.created_at, r.updated_at,
		       c.name, c.email
		FROM customer_reminders r
		JOIN customers c ON c.id = r.customer_id
		WHERE r.reminded = FALSE AND r.remind_at <= $1
		ORDER BY r.remind_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	due := make([]DueReminder, 0)
	for rows.Next() {
		var d DueReminder
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Message, &d.RemindAt, &d.Reminded, &d.Attempts,
			&d.CreatedAt, &d.UpdatedAt, &d.CustomerName, &d.CustomerEmail); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// RecordAttempt bumps the attempt counter after a delivery attempt and marks
// the reminder done once it was delivered or the attempt budget is spent.
// A reminder that was completed in the meantime stays completed; the flag
// only ever moves from false to true.
func (r *Repository) RecordAttempt(ctx context.Context, id uuid.UUID, delivered bool, maxAttempts int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customer_reminders
		SET attempts = attempts + 1,
		    reminded = (reminded OR $2 OR attempts + 1 >= $3),
		    updated_at = now()
		WHERE id = $1`,
		id, delivered, maxAttempts)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReminderDone completes a reminder manually, regardless of delivery.
// The reminder must belong to the given customer.
func (r *Repository) MarkReminderDone(ctx context.Context, customerID, id uuid.UUID) (Reminder, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE customer_reminders SET reminded = TRUE, updated_at = now()
		WHERE id = $1 AND customer_id = $2
		RETURNING `+reminderColumns, id, customerID)
	reminder, err := scanReminder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reminder{}, ErrNotFound
	}
	return reminder, err
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
