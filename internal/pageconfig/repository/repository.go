// Package repository persists page sections in PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/pageconfig/domain"
)

var ErrNotFound = errors.New("page section not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sectionColumns = `id, section_name, is_active, title, subtitle, content,
	cta_text, cta_link, display_order, seo_config, updated_at`

func scanSection(row pgx.Row) (domain.Section, error) {
	var s domain.Section
	err := row.Scan(
		&s.ID, &s.SectionName, &s.IsActive, &s.Title, &s.Subtitle, &s.Content,
		&s.CTAText, &s.CTALink, &s.DisplayOrder, &s.SEOConfig, &s.UpdatedAt,
	)
	return s, err
}

// ListActive returns the visible sections in display order, for the public page.
func (r *Repository) ListActive(ctx context.Context) ([]domain.Section, error) {
	return r.list(ctx, `SELECT `+sectionColumns+` FROM b2b_page_config
		WHERE is_active ORDER BY display_order ASC`)
}

// ListAll returns every section in display order, for the admin editor.
func (r *Repository) ListAll(ctx context.Context) ([]domain.Section, error) {
	return r.list(ctx, `SELECT `+sectionColumns+` FROM b2b_page_config
		ORDER BY display_order ASC`)
}

func (r *Repository) list(ctx context.Context, query string) ([]domain.Section, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdateParams carries the partial update for a section. Nil fields keep the
// stored value.
type UpdateParams struct {
	IsActive     *bool
	Title        *string
	Subtitle     *string
	Content      json.RawMessage
	CTAText      *string
	CTALink      *string
	DisplayOrder *int
	SEOConfig    json.RawMessage
}

// UpdateBySection applies a partial update keyed by section name.
func (r *Repository) UpdateBySection(ctx context.Context, sectionName string, params UpdateParams) (domain.Section, error) {
	section, err := scanSection(r.pool.QueryRow(ctx, `
		UPDATE b2b_page_config SET
			is_active     = COALESCE($2, is_active),
			title         = COALESCE($3, title),
			subtitle      = COALESCE($4, subtitle),
			content       = COALESCE($5, content),
			cta_text      = COALESCE($6, cta_text),
			cta_link      = COALESCE($7, cta_link),
			display_order = COALESCE($8, display_order),
			seo_config    = COALESCE($9, seo_config),
			updated_at    = now()
		WHERE section_name = $1
		RETURNING `+sectionColumns,
		sectionName, params.IsActive, params.Title, params.Subtitle, params.Content,
		params.CTAText, params.CTALink, params.DisplayOrder, params.SEOConfig,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Section{}, ErrNotFound
	}
	return section, err
}

// SetVisibility toggles a section on or off without touching its content.
func (r *Repository) SetVisibility(ctx context.Context, sectionName string, isActive bool) (domain.Section, error) {
	section, err := scanSection(r.pool.QueryRow(ctx, `
		UPDATE b2b_page_config SET is_active = $2, updated_at = now()
		WHERE section_name = $1
		RETURNING `+sectionColumns,
		sectionName, isActive,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Section{}, ErrNotFound
	}
	return section, err
}
