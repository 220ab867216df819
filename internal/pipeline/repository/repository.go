// Package repository persists pipeline entries in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/pipeline/domain"
)

var ErrNotFound = errors.New("pipeline entry not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, lead_id, status, lead_score, priority, source_type, source_page,
	utm_source, utm_medium, utm_campaign, estimated_value, probability_percentage,
	assigned_to, internal_notes, qualification_notes, lost_reason, next_follow_up_date,
	contacted_at, qualified_at, quote_sent_at, won_at, lost_at, created_at, updated_at`

func scanEntry(row pgx.Row) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.ID, &e.LeadID, &e.Status, &e.Score, &e.Priority, &e.SourceType, &e.SourcePage,
		&e.UTMSource, &e.UTMMedium, &e.UTMCampaign, &e.EstimatedValue, &e.Probability,
		&e.AssignedTo, &e.Notes, &e.QualificationNotes, &e.LostReason, &e.NextFollowUpDate,
		&e.ContactedAt, &e.QualifiedAt, &e.QuoteSentAt, &e.WonAt, &e.LostAt, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *Repository) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	return scanEntry(r.pool.QueryRow(ctx, `
		INSERT INTO b2b_pipeline (
			id, lead_id, status, lead_score, priority, source_type, source_page,
			utm_source, utm_medium, utm_campaign, estimated_value, probability_percentage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+entryColumns+`
	`, entry.ID, entry.LeadID, entry.Status, entry.Score, entry.Priority, entry.SourceType, entry.SourcePage,
		entry.UTMSource, entry.UTMMedium, entry.UTMCampaign, entry.EstimatedValue, entry.Probability))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM b2b_pipeline WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, ErrNotFound
	}
	return entry, err
}

func (r *Repository) GetByLeadID(ctx context.Context, leadID uuid.UUID) (domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+` FROM b2b_pipeline WHERE lead_id = $1
	`, leadID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, ErrNotFound
	}
	return entry, err
}

type ListParams struct {
	Status     *domain.Status
	SourceType *domain.SourceType
	AssignedTo *uuid.UUID
	Limit      int
	Offset     int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Entry, int, error) {
	where := []string{"1=1"}
	args := []any{}
	idx := 1
	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, *params.Status)
		idx++
	}
	if params.SourceType != nil {
		where = append(where, fmt.Sprintf("source_type = $%d", idx))
		args = append(args, *params.SourceType)
		idx++
	}
	if params.AssignedTo != nil {
		where = append(where, fmt.Sprintf("assigned_to = $%d", idx))
		args = append(args, *params.AssignedTo)
		idx++
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM b2b_pipeline WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+entryColumns+` FROM b2b_pipeline
		WHERE `+clause+`
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, idx, idx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return entries, total, nil
}

type UpdateParams struct {
	Score              *int
	Priority           *domain.Priority
	EstimatedValue     *int64
	Probability        *int
	Notes              *string
	QualificationNotes *string
	NextFollowUpDate   *time.Time
	ClearFollowUp      bool
}

// Update applies the non-status commercial fields. Nil pointers leave the
// column untouched; ClearFollowUp removes a scheduled follow-up.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		UPDATE b2b_pipeline SET
			lead_score = COALESCE($2, lead_score),
			priority = COALESCE($3, priority),
			estimated_value = COALESCE($4, estimated_value),
			probability_percentage = COALESCE($5, probability_percentage),
			internal_notes = COALESCE($6, internal_notes),
			qualification_notes = COALESCE($7, qualification_notes),
			next_follow_up_date = CASE WHEN $9 THEN NULL ELSE COALESCE($8, next_follow_up_date) END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns+`
	`, id, params.Score, params.Priority, params.EstimatedValue, params.Probability, params.Notes,
		params.QualificationNotes, params.NextFollowUpDate, params.ClearFollowUp))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, ErrNotFound
	}
	return entry, err
}

func (r *Repository) Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, `
		UPDATE b2b_pipeline SET assigned_to = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns+`
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, ErrNotFound
	}
	return entry, err
}

// Transition moves an entry to a new status inside a transaction. The row is
// locked, validate runs against the current status, and milestone timestamps
// are stamped only if still null. validate returning an error aborts without
// touching the row. A note accompanying a move to lost lands in lost_reason,
// otherwise in internal_notes.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, to domain.Status, note *string, validate func(from domain.Status) error) (domain.Entry, domain.Status, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Entry{}, "", err
	}
	defer tx.Rollback(ctx)

	var from domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM b2b_pipeline WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entry{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Entry{}, "", err
	}

	if err := validate(from); err != nil {
		return domain.Entry{}, from, err
	}

	entry, err := applyTransition(ctx, tx, id, to, note)
	if err != nil {
		return domain.Entry{}, from, err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Entry{}, from, err
	}
	return entry, from, nil
}

// TransitionByLeadIDTx forces a status inside a caller-owned transaction, so
// quote and mission creation commit atomically with the pipeline move. When
// the entry already holds the target status nothing is written and the call
// reports a no-op.
func (r *Repository) TransitionByLeadIDTx(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, to domain.Status) (from domain.Status, changed bool, err error) {
	var id uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id, status FROM b2b_pipeline WHERE lead_id = $1 FOR UPDATE`, leadID).Scan(&id, &from)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, err
	}
	if from == to {
		return from, false, nil
	}
	if _, err := applyTransition(ctx, tx, id, to, nil); err != nil {
		return from, false, err
	}
	return from, true, nil
}

// TransitionByIDTx is TransitionByLeadIDTx keyed by entry id, for callers
// that hold the pipeline reference directly.
func (r *Repository) TransitionByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, to domain.Status) (from domain.Status, changed bool, err error) {
	err = tx.QueryRow(ctx, `SELECT status FROM b2b_pipeline WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, ErrNotFound
	}
	if err != nil {
		return "", false, err
	}
	if from == to {
		return from, false, nil
	}
	if _, err := applyTransition(ctx, tx, id, to, nil); err != nil {
		return from, false, err
	}
	return from, true, nil
}

// applyTransition is the SQL mirror of domain.ApplyTransitionEffects: note
// routing, once-only milestone stamps via COALESCE, appended internal notes.
func applyTransition(ctx context.Context, q querier, id uuid.UUID, to domain.Status, note *string) (domain.Entry, error) {
	return scanEntry(q.QueryRow(ctx, `
		UPDATE b2b_pipeline SET
			status = $2,
			internal_notes = CASE WHEN $2 <> 'lost' AND $3 IS NOT NULL THEN CONCAT_WS(E'\n', internal_notes, $3) ELSE internal_notes END,
			lost_reason = CASE WHEN $2 = 'lost' THEN COALESCE($3, lost_reason) ELSE lost_reason END,
			contacted_at = CASE WHEN $2 = 'contacted' THEN COALESCE(contacted_at, now()) ELSE contacted_at END,
			qualified_at = CASE WHEN $2 = 'qualified' THEN COALESCE(qualified_at, now()) ELSE qualified_at END,
			quote_sent_at = CASE WHEN $2 = 'quote_sent' THEN COALESCE(quote_sent_at, now()) ELSE quote_sent_at END,
			won_at = CASE WHEN $2 = 'won' THEN COALESCE(won_at, now()) ELSE won_at END,
			lost_at = CASE WHEN $2 = 'lost' THEN COALESCE(lost_at, now()) ELSE lost_at END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+entryColumns+`
	`, id, to, note))
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StatsRows returns the minimal projection the statistics reduction needs.
func (r *Repository) StatsRows(ctx context.Context) ([]domain.StatsRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, source_type, estimated_value, created_at FROM b2b_pipeline
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.StatsRow, 0)
	for rows.Next() {
		var row domain.StatsRow
		if err := rows.Scan(&row.Status, &row.SourceType, &row.EstimatedValue, &row.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
