// Package service implements quote workflows: calculation, numbering,
// creation with the pipeline side effect, and status management.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/quotes/domain"
	"jobguinee_backend/internal/quotes/repository"
	"jobguinee_backend/platform/apperr"
)

// QuoteRepository is the persistence surface the service needs.
type QuoteRepository interface {
	NextSequence(ctx context.Context, key string) (int64, error)
	Create(ctx context.Context, quote domain.Quote, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Quote, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Quote, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Quote, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error, forcePipeline func(ctx context.Context, tx pgx.Tx, quote domain.Quote) error) (domain.Quote, domain.Status, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PipelineForcer moves a pipeline entry to quote_sent inside the caller's
// transaction. Forcing an entry already at quote_sent is a no-op.
type PipelineForcer interface {
	ForceQuoteSentTx(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID) (changed bool, err error)
}

// PDFStorage resolves a presigned download URL for a quote's rendered PDF.
type PDFStorage interface {
	PresignedQuotePDFURL(ctx context.Context, quoteNumber string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo     QuoteRepository
	pipeline PipelineForcer
	storage  PDFStorage
	bus      EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

// New builds the quote service. storage may be nil when no object store is
// configured; pdf-url requests then fail cleanly.
func New(repo QuoteRepository, pipeline PipelineForcer, storage PDFStorage, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, pipeline: pipeline, storage: storage, bus: bus, logger: logger, now: time.Now}
}

type ItemParams struct {
	Name        string
	Description *string
	Quantity    int
	UnitPrice   int64
}

type CreateParams struct {
	PipelineID         *uuid.UUID
	LeadID             *uuid.UUID
	Title              string
	Description        *string
	Items              []ItemParams
	DiscountPct        float64
	TaxPct             float64
	ValidityDays       int
	PaymentTerms       *string
	DeliveryTimeline   *string
	TermsAndConditions *string
	Status             domain.Status
	CreatedBy          *uuid.UUID
}

func (s *Service) validateItems(op string, params CreateParams) ([]domain.LineItem, error) {
	if len(params.Items) == 0 {
		return nil, apperr.Validation(op, "a quote needs at least one line item")
	}
	if params.DiscountPct < 0 || params.DiscountPct > 100 {
		return nil, apperr.Validation(op, "discount percentage must be between 0 and 100")
	}
	if params.TaxPct < 0 || params.TaxPct > 100 {
		return nil, apperr.Validation(op, "tax percentage must be between 0 and 100")
	}
	items := make([]domain.LineItem, 0, len(params.Items))
	for i, item := range params.Items {
		if item.Name == "" {
			return nil, apperr.Validation(op, fmt.Sprintf("item %d has no name", i+1))
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validation(op, fmt.Sprintf("item %d quantity must be positive", i+1))
		}
		if item.UnitPrice < 0 {
			return nil, apperr.Validation(op, fmt.Sprintf("item %d unit price cannot be negative", i+1))
		}
		items = append(items, domain.LineItem{
			ID:          uuid.New(),
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Position:    i,
		})
	}
	return items, nil
}

// Calculate previews the money breakdown without persisting anything.
func (s *Service) Calculate(_ context.Context, params CreateParams) (domain.Totals, error) {
	const op = "quotes.Calculate"
	items, err := s.validateItems(op, params)
	if err != nil {
		return domain.Totals{}, err
	}
	_, totals := domain.CalculateTotals(items, params.DiscountPct, params.TaxPct)
	return totals, nil
}

// Create persists a quote with server-computed totals and, when linked to a
// pipeline entry, forces that entry to quote_sent in the same transaction
// whatever the quote status. Issuing a quote is the commercial signal the
// pipeline tracks, even while the document itself is still a draft.
func (s *Service) Create(ctx context.Context, params CreateParams) (domain.Quote, error) {
	const op = "quotes.Create"

	items, err := s.validateItems(op, params)
	if err != nil {
		return domain.Quote{}, err
	}
	items, totals := domain.CalculateTotals(items, params.DiscountPct, params.TaxPct)

	validityDays := params.ValidityDays
	if validityDays <= 0 {
		validityDays = domain.DefaultValidityDays
	}
	status := params.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if status != domain.StatusDraft && status != domain.StatusSent {
		return domain.Quote{}, apperr.Validation(op, fmt.Sprintf("a quote cannot be created as %q", status))
	}

	quote := domain.Quote{
		ID:                 uuid.New(),
		PipelineID:         params.PipelineID,
		LeadID:             params.LeadID,
		QuoteNumber:        s.nextQuoteNumber(ctx),
		Title:              params.Title,
		Description:        params.Description,
		Items:              items,
		Subtotal:           totals.Subtotal,
		DiscountPct:        params.DiscountPct,
		DiscountAmount:     totals.DiscountAmount,
		TaxPct:             params.TaxPct,
		TaxAmount:          totals.TaxAmount,
		TotalAmount:        totals.TotalAmount,
		Currency:           domain.DefaultCurrency,
		ValidityDays:       validityDays,
		PaymentTerms:       params.PaymentTerms,
		DeliveryTimeline:   params.DeliveryTimeline,
		TermsAndConditions: params.TermsAndConditions,
		Status:             status,
		CreatedBy:          params.CreatedBy,
	}

	var force func(ctx context.Context, tx pgx.Tx) error
	if params.PipelineID != nil && s.pipeline != nil {
		pipelineID := *params.PipelineID
		force = func(ctx context.Context, tx pgx.Tx) error {
			_, err := s.pipeline.ForceQuoteSentTx(ctx, tx, pipelineID)
			return err
		}
	}

	created, err := s.repo.Create(ctx, quote, force)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Quote{}, err
		}
		return domain.Quote{}, apperr.Internal(op, "failed to create quote", err)
	}

	s.bus.Publish(ctx, events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     created.ID,
		PipelineID:  created.PipelineID,
		LeadID:      created.LeadID,
		QuoteNumber: created.QuoteNumber,
		Title:       created.Title,
		TotalAmount: created.TotalAmount,
		Currency:    created.Currency,
	})
	return created, nil
}

// nextQuoteNumber produces DV-<year>-<seq> from the counter table. If the
// counter is unreachable, a timestamp-based number keeps creation working;
// uniqueness holds at millisecond resolution, which is enough for a
// low-volume sales flow during an outage.
func (s *Service) nextQuoteNumber(ctx context.Context) string {
	year := s.now().Year()
	seq, err := s.repo.NextSequence(ctx, fmt.Sprintf("quote:%d", year))
	if err != nil {
		s.logger.Error("quote counter unavailable, falling back to timestamp number",
			slog.String("error", err.Error()))
		return fmt.Sprintf("DV-%d", s.now().UnixMilli())
	}
	return fmt.Sprintf("DV-%d-%04d", year, seq)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Quote, error) {
	const op = "quotes.Get"
	quote, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Quote{}, apperr.NotFound(op, "quote not found")
	}
	if err != nil {
		return domain.Quote{}, apperr.Internal(op, "failed to load quote", err)
	}
	return quote, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]domain.Quote, int, error) {
	const op = "quotes.List"
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	quotes, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Internal(op, "failed to list quotes", err)
	}
	return quotes, total, nil
}

// UpdateStatus applies a quote status change against the whitelist.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status) (domain.Quote, error) {
	const op = "quotes.UpdateStatus"

	if !domain.IsKnownStatus(to) {
		return domain.Quote{}, apperr.Validation(op, fmt.Sprintf("unknown quote status %q", to))
	}

	// Sending a quote (first time or after revision) moves its pipeline entry
	// to quote_sent in the same transaction. The force is an idempotent no-op
	// when the entry is already there.
	var force func(ctx context.Context, tx pgx.Tx, quote domain.Quote) error
	if to == domain.StatusSent && s.pipeline != nil {
		force = func(ctx context.Context, tx pgx.Tx, quote domain.Quote) error {
			if quote.PipelineID == nil {
				return nil
			}
			_, err := s.pipeline.ForceQuoteSentTx(ctx, tx, *quote.PipelineID)
			return err
		}
	}

	quote, from, err := s.repo.UpdateStatus(ctx, id, to, func(from domain.Status) error {
		if !domain.CanTransition(from, to) {
			return apperr.Conflict(op, fmt.Sprintf("cannot transition quote from %s to %s", from, to))
		}
		return nil
	}, force)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Quote{}, apperr.NotFound(op, "quote not found")
	}
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Quote{}, err
		}
		return domain.Quote{}, apperr.Internal(op, "failed to update quote status", err)
	}

	s.bus.Publish(ctx, events.QuoteStatusChanged{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		FromStatus:  string(from),
		ToStatus:    string(quote.Status),
	})
	return quote, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "quotes.Delete"
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(op, "quote not found")
	}
	if err != nil {
		return apperr.Internal(op, "failed to delete quote", err)
	}
	return nil
}

// PDFURL returns a presigned download link for the quote's stored PDF.
func (s *Service) PDFURL(ctx context.Context, id uuid.UUID) (string, error) {
	const op = "quotes.PDFURL"

	if s.storage == nil {
		return "", apperr.BadRequest(op, "pdf storage is not configured")
	}
	quote, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.storage.PresignedQuotePDFURL(ctx, quote.QuoteNumber)
	if err != nil {
		return "", apperr.Internal(op, "failed to presign quote pdf url", err)
	}
	return url, nil
}
