// Package storage is the persistence layer for jobs, technicians, user
// preferences, and the price catalog. Every inbound message is handled
// inside a single transaction via InTx so rapid messages from the same
// customer serialize instead of double-advancing the intake flow.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/CorporateGuuu/mdts-whatsapp-bot/internal/bot/domain"
)

// Storage wraps the database handle and hands out query sets.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// New creates a Storage on top of an open database handle.
func New(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{db: db, logger: logger}
}

// Queries returns a non-transactional query set for read paths that do not
// need the per-message transaction.
func (s *Storage) Queries() *Queries {
	return &Queries{ext: s.db}
}

// InTx runs fn inside a transaction, committing on nil and rolling back on
// error or panic.
func (s *Storage) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Queries{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Transaction rollback failed",
				slog.String("error", rbErr.Error()),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Queries holds the query methods and runs against either the bare handle
// or an open transaction.
type Queries struct {
	ext sqlx.ExtContext
}

// CreateJob inserts a job and fills in its assigned id.
func (q *Queries) CreateJob(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			created_at, customer_phone, model, qty, include_cable,
			notes, photo_url, status, intake_step, assigned_to_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := q.ext.QueryRowxContext(
		ctx,
		query,
		job.CreatedAt,
		job.CustomerPhone,
		job.Model,
		job.Qty,
		job.IncludeCable,
		job.Notes,
		job.PhotoURL,
		job.Status,
		job.IntakeStep,
		job.AssignedToID,
	).Scan(&job.ID)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob fetches a job by id. Returns domain.ErrJobNotFound when the id
// does not resolve.
func (q *Queries) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	query := `
		SELECT id, created_at, customer_phone, model, qty, include_cable,
		       notes, photo_url, status, intake_step, assigned_to_id
		FROM jobs
		WHERE id = $1
	`

	var job domain.Job
	if err := sqlx.GetContext(ctx, q.ext, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// UpdateJob persists every mutable field of a job.
func (q *Queries) UpdateJob(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs
		SET model = $1,
		    qty = $2,
		    include_cable = $3,
		    notes = $4,
		    photo_url = $5,
		    status = $6,
		    intake_step = $7,
		    assigned_to_id = $8
		WHERE id = $9
	`

	res, err := q.ext.ExecContext(
		ctx,
		query,
		job.Model,
		job.Qty,
		job.IncludeCable,
		job.Notes,
		job.PhotoURL,
		job.Status,
		job.IntakeStep,
		job.AssignedToID,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// ActiveDraft returns the customer's newest draft job with an intake in
// progress, or domain.ErrJobNotFound when there is none.
func (q *Queries) ActiveDraft(ctx context.Context, customerPhone string) (*domain.Job, error) {
	query := `
		SELECT id, created_at, customer_phone, model, qty, include_cable,
		       notes, photo_url, status, intake_step, assigned_to_id
		FROM jobs
		WHERE customer_phone = $1 AND status = $2 AND intake_step > 0
		ORDER BY id DESC
		LIMIT 1
	`

	var job domain.Job
	if err := sqlx.GetContext(ctx, q.ext, &job, query, customerPhone, domain.StatusDraft); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find active draft: %w", err)
	}
	return &job, nil
}

// TechnicianByName resolves a technician by exact, case-insensitive name.
// Returns domain.ErrUnknownTechnician when no row matches.
func (q *Queries) TechnicianByName(ctx context.Context, name string) (*domain.Technician, error) {
	query := `
		SELECT id, name, address, active
		FROM technicians
		WHERE LOWER(name) = LOWER($1)
	`

	var tech domain.Technician
	if err := sqlx.GetContext(ctx, q.ext, &tech, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownTechnician
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return &tech, nil
}

// TechnicianByID fetches a technician by id.
func (q *Queries) TechnicianByID(ctx context.Context, id int64) (*domain.Technician, error) {
	query := `
		SELECT id, name, address, active
		FROM technicians
		WHERE id = $1
	`

	var tech domain.Technician
	if err := sqlx.GetContext(ctx, q.ext, &tech, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownTechnician
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return &tech, nil
}

// CreateTechnician inserts a technician and fills in its assigned id.
// technicians.name is unique; the database rejects duplicates.
func (q *Queries) CreateTechnician(ctx context.Context, tech *domain.Technician) error {
	query := `
		INSERT INTO technicians (name, address, active)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := q.ext.QueryRowxContext(ctx, query, tech.Name, tech.Address, tech.Active).Scan(&tech.ID)
	if err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

// IsTechnician reports whether the address belongs to a registered
// technician. Used to pick the right help menu.
func (q *Queries) IsTechnician(ctx context.Context, address string) (bool, error) {
	query := `SELECT COUNT(*) FROM technicians WHERE address = $1`

	var count int
	if err := sqlx.GetContext(ctx, q.ext, &count, query, address); err != nil {
		return false, fmt.Errorf("failed to check technician address: %w", err)
	}
	return count > 0, nil
}

// PriceByModel fetches the catalog entry for a normalized model key.
// Returns domain.ErrUnknownModel when the model has no price on file.
func (q *Queries) PriceByModel(ctx context.Context, model string) (*domain.PriceEntry, error) {
	query := `
		SELECT id, model, unit_price, cable_adder
		FROM prices
		WHERE model = $1
	`

	var entry domain.PriceEntry
	if err := sqlx.GetContext(ctx, q.ext, &entry, query, model); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnknownModel
		}
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return &entry, nil
}

// UpsertPrice inserts or replaces the catalog entry for a model.
func (q *Queries) UpsertPrice(ctx context.Context, entry *domain.PriceEntry) error {
	query := `
		INSERT INTO prices (model, unit_price, cable_adder)
		VALUES ($1, $2, $3)
		ON CONFLICT (model) DO UPDATE
		SET unit_price = EXCLUDED.unit_price,
		    cable_adder = EXCLUDED.cable_adder
	`

	if _, err := q.ext.ExecContext(ctx, query, entry.Model, entry.UnitPrice, entry.CableAdder); err != nil {
		return fmt.Errorf("failed to upsert price: %w", err)
	}
	return nil
}

// HasModel reports whether a model key exists in the price catalog.
func (q *Queries) HasModel(ctx context.Context, key string) (bool, error) {
	query := `SELECT COUNT(*) FROM prices WHERE model = $1`

	var count int
	if err := sqlx.GetContext(ctx, q.ext, &count, query, key); err != nil {
		return false, fmt.Errorf("failed to check model: %w", err)
	}
	return count > 0, nil
}

// ModelKeys lists all catalog model keys, sorted.
func (q *Queries) ModelKeys(ctx context.Context) ([]string, error) {
	query := `SELECT model FROM prices ORDER BY model`

	var keys []string
	if err := sqlx.SelectContext(ctx, q.ext, &keys, query); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return keys, nil
}

// UserPref fetches a sender's preference row, or nil when none exists yet.
func (q *Queries) UserPref(ctx context.Context, phone string) (*domain.UserPreference, error) {
	query := `
		SELECT id, phone, tz
		FROM user_prefs
		WHERE phone = $1
	`

	var pref domain.UserPreference
	if err := sqlx.GetContext(ctx, q.ext, &pref, query, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user preference: %w", err)
	}
	return &pref, nil
}

// UpsertUserPref creates or updates a sender's timezone preference.
func (q *Queries) UpsertUserPref(ctx context.Context, phone, tz string) error {
	query := `
		INSERT INTO user_prefs (phone, tz)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET tz = EXCLUDED.tz
	`

	if _, err := q.ext.ExecContext(ctx, query, phone, tz); err != nil {
		return fmt.Errorf("failed to upsert user preference: %w", err)
	}
	return nil
}
