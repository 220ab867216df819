// Package repository persists missions in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/missions/domain"
)

var ErrNotFound = errors.New("mission not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextSequence shares the counter table with quotes; mission keys use their
// own prefix so the sequences never collide.
func (r *Repository) NextSequence(ctx context.Context, key string) (int64, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO b2b_counters (counter_key, current_value)
		VALUES ($1, 1)
		ON CONFLICT (counter_key) DO UPDATE SET current_value = b2b_counters.current_value + 1
		RETURNING current_value
	`, key).Scan(&seq)
	return seq, err
}

const missionColumns = `id, pipeline_id, quote_id, lead_id, mission_number, name, mission_type,
	client_company, client_contact_name, client_contact_email, client_contact_phone,
	job_title, job_description, positions_count, status, contract_value,
	start_date, expected_end_date, created_at, updated_at`

func scanMission(row pgx.Row) (domain.Mission, error) {
	var m domain.Mission
	err := row.Scan(
		&m.ID, &m.PipelineID, &m.QuoteID, &m.LeadID, &m.MissionNumber, &m.Name, &m.Type,
		&m.ClientCompany, &m.ClientContactName, &m.ClientContactEmail, &m.ClientContactPhone,
		&m.JobTitle, &m.JobDescription, &m.PositionsCount, &m.Status, &m.ContractValue,
		&m.StartDate, &m.ExpectedEndDate, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// Create persists the mission. When forcePipeline is non-nil it runs inside
// the same transaction as the insert.
func (r *Repository) Create(ctx context.Context, mission domain.Mission, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Mission, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Mission{}, err
	}
	defer tx.Rollback(ctx)

	created, err := scanMission(tx.QueryRow(ctx, `
		INSERT INTO b2b_missions (
			id, pipeline_id, quote_id, lead_id, mission_number, name, mission_type,
			client_company, client_contact_name, client_contact_email, client_contact_phone,
			job_title, job_description, positions_count, status, contract_value,
			start_date, expected_end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+missionColumns+`
	`, mission.ID, mission.PipelineID, mission.QuoteID, mission.LeadID, mission.MissionNumber, mission.Name, mission.Type,
		mission.ClientCompany, mission.ClientContactName, mission.ClientContactEmail, mission.ClientContactPhone,
		mission.JobTitle, mission.JobDescription, mission.PositionsCount, mission.Status, mission.ContractValue,
		mission.StartDate, mission.ExpectedEndDate))
	if err != nil {
		return domain.Mission{}, err
	}

	if forcePipeline != nil {
		if err := forcePipeline(ctx, tx); err != nil {
			return domain.Mission{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Mission{}, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Mission, error) {
	mission, err := scanMission(r.pool.QueryRow(ctx, `
		SELECT `+missionColumns+` FROM b2b_missions WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mission{}, ErrNotFound
	}
	return mission, err
}

type ListParams struct {
	PipelineID *uuid.UUID
	Status     *domain.Status
	Limit      int
	Offset     int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Mission, int, error) {
	where := "1=1"
	args := []any{}
	idx := 1
	if params.PipelineID != nil {
		where += fmt.Sprintf(" AND pipeline_id = $%d", idx)
		args = append(args, *params.PipelineID)
		idx++
	}
	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *params.Status)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM b2b_missions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+missionColumns+` FROM b2b_missions
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, idx, idx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	missions := make([]domain.Mission, 0)
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, 0, err
		}
		missions = append(missions, m)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return missions, total, nil
}

// UpdateStatus moves a mission to a new status under a row lock, validating
// via the callback against the current status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error) (domain.Mission, domain.Status, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Mission{}, "", err
	}
	defer tx.Rollback(ctx)

	var from domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM b2b_missions WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Mission{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Mission{}, "", err
	}

	if err := validate(from); err != nil {
		return domain.Mission{}, from, err
	}

	mission, err := scanMission(tx.QueryRow(ctx, `
		UPDATE b2b_missions SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+missionColumns+`
	`, id, to))
	if err != nil {
		return domain.Mission{}, from, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Mission{}, from, err
	}
	return mission, from, nil
}
