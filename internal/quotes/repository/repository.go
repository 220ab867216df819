// Package repository persists quotes and their line items in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/quotes/domain"
)

var ErrNotFound = errors.New("quote not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextSequence atomically increments and returns the counter for the given
// key (one counter per document type and year). A single upsert keeps this
// race-free without table locks.
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

const quoteColumns = `id, pipeline_id, lead_id, quote_number, title, description,
	subtotal, discount_percentage, discount_amount, tax_percentage, tax_amount, total_amount,
	currency, validity_days, payment_terms, delivery_timeline, terms_and_conditions,
	status, created_by, created_at, updated_at`

func scanQuote(row pgx.Row) (domain.Quote, error) {
	var q domain.Quote
	err := row.Scan(
		&q.ID, &q.PipelineID, &q.LeadID, &q.QuoteNumber, &q.Title, &q.Description,
		&q.Subtotal, &q.DiscountPct, &q.DiscountAmount, &q.TaxPct, &q.TaxAmount, &q.TotalAmount,
		&q.Currency, &q.ValidityDays, &q.PaymentTerms, &q.DeliveryTimeline, &q.TermsAndConditions,
		&q.Status, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}

// Create persists the quote and its items. When forcePipeline is non-nil it
// runs inside the same transaction, so the quote and the pipeline status
// move commit or roll back together.
func (r *Repository) Create(ctx context.Context, quote domain.Quote, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Quote, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Quote{}, err
	}
	defer tx.Rollback(ctx)

	created, err := scanQuote(tx.QueryRow(ctx, `
		INSERT INTO b2b_quotes (
			id, pipeline_id, lead_id, quote_number, title, description,
			subtotal, discount_percentage, discount_amount, tax_percentage, tax_amount, total_amount,
			currency, validity_days, payment_terms, delivery_timeline, terms_and_conditions,
			status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING `+quoteColumns+`
	`, quote.ID, quote.PipelineID, quote.LeadID, quote.QuoteNumber, quote.Title, quote.Description,
		quote.Subtotal, quote.DiscountPct, quote.DiscountAmount, quote.TaxPct, quote.TaxAmount, quote.TotalAmount,
		quote.Currency, quote.ValidityDays, quote.PaymentTerms, quote.DeliveryTimeline, quote.TermsAndConditions,
		quote.Status, quote.CreatedBy))
	if err != nil {
		return domain.Quote{}, err
	}

	for _, item := range quote.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO b2b_quote_items (id, quote_id, name, description, quantity, unit_price, line_total, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, created.ID, item.Name, item.Description, item.Quantity, item.UnitPrice, item.LineTotal, item.Position); err != nil {
			return domain.Quote{}, err
		}
	}
	created.Items = quote.Items

	if forcePipeline != nil {
		if err := forcePipeline(ctx, tx); err != nil {
			return domain.Quote{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Quote{}, err
	}
	return created, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Quote, error) {
	quote, err := scanQuote(r.pool.QueryRow(ctx, `
		SELECT `+quoteColumns+` FROM b2b_quotes WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quote{}, ErrNotFound
	}
	if err != nil {
		return domain.Quote{}, err
	}
	quote.Items, err = r.itemsFor(ctx, id)
	return quote, err
}

func (r *Repository) itemsFor(ctx context.Context, quoteID uuid.UUID) ([]domain.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, quantity, unit_price, line_total, position
		FROM b2b_quote_items WHERE quote_id = $1 ORDER BY position ASC
	`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Quantity, &item.UnitPrice, &item.LineTotal, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type ListParams struct {
	PipelineID *uuid.UUID
	Status     *domain.Status
	Limit      int
	Offset     int
}

// List returns quotes without their items; item detail is a per-quote fetch.
func (r *Repository) List(ctx context.Context, params ListParams) ([]domain.Quote, int, error) {
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
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM b2b_quotes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+quoteColumns+` FROM b2b_quotes
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, idx, idx+1), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return quotes, total, nil
}

// UpdateStatus moves a quote to a new status under a row lock, validating
// via the callback against the current status.
// UpdateStatus changes the quote status after validate approves the current
// one. When forcePipeline is non-nil it runs inside the same transaction,
// after the update, so sending a draft moves the pipeline atomically.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error, forcePipeline func(ctx context.Context, tx pgx.Tx, quote domain.Quote) error) (domain.Quote, domain.Status, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Quote{}, "", err
	}
	defer tx.Rollback(ctx)

	var from domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM b2b_quotes WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quote{}, "", ErrNotFound
	}
	if err != nil {
		return domain.Quote{}, "", err
	}

	if err := validate(from); err != nil {
		return domain.Quote{}, from, err
	}

	quote, err := scanQuote(tx.QueryRow(ctx, `
		UPDATE b2b_quotes SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+quoteColumns+`
	`, id, to))
	if err != nil {
		return domain.Quote{}, from, err
	}
	if forcePipeline != nil {
		if err := forcePipeline(ctx, tx, quote); err != nil {
			return domain.Quote{}, from, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Quote{}, from, err
	}
	return quote, from, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM b2b_quotes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
