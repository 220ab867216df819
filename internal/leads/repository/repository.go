// Package repository persists B2B leads in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/leads/domain"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, organization_name, organization_type, sector, primary_need, urgency,
	contact_name, contact_email, contact_phone, message, status, assigned_to, notes,
	created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.OrganizationName, &l.OrganizationType, &l.Sector, &l.PrimaryNeed, &l.Urgency,
		&l.ContactName, &l.ContactEmail, &l.ContactPhone, &l.Message, &l.Status, &l.AssignedTo, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO b2b_leads (
			id, organization_name, organization_type, sector, primary_need, urgency,
			contact_name, contact_email, contact_phone, message, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+leadColumns+`
	`, lead.ID, lead.OrganizationName, lead.OrganizationType, lead.Sector, lead.PrimaryNeed, lead.Urgency,
		lead.ContactName, lead.ContactEmail, lead.ContactPhone, lead.Message, lead.Status))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM b2b_leads WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

type ListParams struct {
	Status *domain.Status
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}
	idx := 1
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, *params.Status)
		idx++
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM b2b_leads WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+leadColumns+` FROM b2b_leads
		WHERE `+clause+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, idx, idx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return leads, total, nil
}

// UpdateStatus moves a lead to a new status under a row lock, validating the
// transition via the callback against the current status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, notes *string, validate func(from domain.Status) error) (domain.Lead, domain.Status, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, "", err
	}
	defer tx.Rollback(ctx)

	var from domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM b2b_leads WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, "", err
	}

	if err := validate(from); err != nil {
		return domain.Lead{}, from, err
	}

	lead, err := scanLead(tx.QueryRow(ctx, `
		UPDATE b2b_leads SET status = $2, notes = COALESCE($3, notes), updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, to, notes))
	if err != nil {
		return domain.Lead{}, from, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, from, err
	}
	return lead, from, nil
}

func (r *Repository) Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		UPDATE b2b_leads SET assigned_to = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}
