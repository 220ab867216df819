package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/quotes/domain"
	"jobguinee_backend/internal/quotes/repository"
	"jobguinee_backend/platform/apperr"
)

type fakeRepo struct {
	quotes      map[uuid.UUID]*domain.Quote
	seq         int64
	counterFail bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{quotes: make(map[uuid.UUID]*domain.Quote)}
}

func (f *fakeRepo) NextSequence(_ context.Context, _ string) (int64, error) {
	if f.counterFail {
		return 0, errors.New("counter table unavailable")
	}
	f.seq++
	return f.seq, nil
}

func (f *fakeRepo) Create(ctx context.Context, quote domain.Quote, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Quote, error) {
	if forcePipeline != nil {
		if err := forcePipeline(ctx, nil); err != nil {
			return domain.Quote{}, err
		}
	}
	f.quotes[quote.ID] = &quote
	return quote, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return domain.Quote{}, repository.ErrNotFound
	}
	return *q, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Quote, int, error) {
	out := make([]domain.Quote, 0, len(f.quotes))
	for _, q := range f.quotes {
		out = append(out, *q)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error, forcePipeline func(ctx context.Context, tx pgx.Tx, quote domain.Quote) error) (domain.Quote, domain.Status, error) {
	q, ok := f.quotes[id]
	if !ok {
		return domain.Quote{}, "", repository.ErrNotFound
	}
	from := q.Status
	if err := validate(from); err != nil {
		return domain.Quote{}, from, err
	}
	q.Status = to
	if forcePipeline != nil {
		if err := forcePipeline(ctx, nil, *q); err != nil {
			return domain.Quote{}, from, err
		}
	}
	return *q, from, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quotes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.quotes, id)
	return nil
}

type fakeForcer struct {
	calls []uuid.UUID
	fail  bool
}

func (f *fakeForcer) ForceQuoteSentTx(_ context.Context, _ pgx.Tx, pipelineID uuid.UUID) (bool, error) {
	f.calls = append(f.calls, pipelineID)
	if f.fail {
		return false, errors.New("pipeline row missing")
	}
	return true, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func validCreate(pipelineID *uuid.UUID) CreateParams {
	return CreateParams{
		PipelineID: pipelineID,
		Title:      "Externalisation recrutement cadres",
		Items: []ItemParams{
			{Name: "Recrutement cadre", Quantity: 1, UnitPrice: 100000},
		},
	}
}

func TestCreateComputesTotalsAndForcesPipeline(t *testing.T) {
	repo := newFakeRepo()
	forcer := &fakeForcer{}
	bus := &recordingBus{}
	svc := New(repo, forcer, nil, bus, slog.Default())

	pipelineID := uuid.New()
	quote, err := svc.Create(context.Background(), validCreate(&pipelineID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quote.TotalAmount != 100000 || quote.Subtotal != 100000 {
		t.Errorf("totals = %d/%d, want 100000", quote.Subtotal, quote.TotalAmount)
	}
	if quote.Currency != "GNF" {
		t.Errorf("currency = %s, want GNF", quote.Currency)
	}
	if quote.Status != domain.StatusDraft {
		t.Errorf("default status = %s, want draft", quote.Status)
	}
	if quote.ValidityDays != domain.DefaultValidityDays {
		t.Errorf("validity days = %d, want default", quote.ValidityDays)
	}
	if len(forcer.calls) != 1 || forcer.calls[0] != pipelineID {
		t.Errorf("pipeline force calls = %v", forcer.calls)
	}
	if !strings.HasPrefix(quote.QuoteNumber, "DV-") {
		t.Errorf("quote number = %q", quote.QuoteNumber)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "b2b.quote.created" {
		t.Errorf("events = %v", bus.published)
	}
}

func TestCreateStatusHandling(t *testing.T) {
	repo := newFakeRepo()
	forcer := &fakeForcer{}
	svc := New(repo, forcer, nil, &recordingBus{}, slog.Default())

	// An explicit sent status is honored.
	pipelineID := uuid.New()
	params := validCreate(&pipelineID)
	params.Status = domain.StatusSent
	quote, err := svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quote.Status != domain.StatusSent {
		t.Errorf("status = %s, want sent", quote.Status)
	}
	// Creating a draft still moves the pipeline; issuing the quote is the
	// signal, not its document status.
	params = validCreate(&pipelineID)
	params.Status = domain.StatusDraft
	quote, err = svc.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("Create draft: %v", err)
	}
	if quote.Status != domain.StatusDraft {
		t.Errorf("status = %s, want draft", quote.Status)
	}
	if len(forcer.calls) != 2 {
		t.Errorf("pipeline force calls = %d, want one per creation", len(forcer.calls))
	}

	// Quotes cannot start in a downstream status.
	params = validCreate(nil)
	params.Status = domain.StatusAccepted
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("accepted at creation: kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestCreateRollsBackWhenPipelineForceFails(t *testing.T) {
	repo := newFakeRepo()
	forcer := &fakeForcer{fail: true}
	bus := &recordingBus{}
	svc := New(repo, forcer, nil, bus, slog.Default())

	pipelineID := uuid.New()
	_, err := svc.Create(context.Background(), validCreate(&pipelineID))
	if err == nil {
		t.Fatal("expected error when pipeline force fails")
	}
	if len(repo.quotes) != 0 {
		t.Error("quote must not persist when the transaction fails")
	}
	if len(bus.published) != 0 {
		t.Error("no event on failed creation")
	}
}

func TestCreateCounterFallbackNumber(t *testing.T) {
	repo := newFakeRepo()
	repo.counterFail = true
	svc := New(repo, nil, nil, &recordingBus{}, slog.Default())

	quote, err := svc.Create(context.Background(), validCreate(nil))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Fallback format is DV-<unix-ms>: a DV- prefix followed by digits only.
	if !strings.HasPrefix(quote.QuoteNumber, "DV-") || strings.Count(quote.QuoteNumber, "-") != 1 {
		t.Errorf("fallback number = %q", quote.QuoteNumber)
	}
}

func TestCreateSequentialNumbers(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, &recordingBus{}, slog.Default())

	first, _ := svc.Create(context.Background(), validCreate(nil))
	second, _ := svc.Create(context.Background(), validCreate(nil))

	if !strings.HasSuffix(first.QuoteNumber, "-0001") {
		t.Errorf("first number = %q", first.QuoteNumber)
	}
	if !strings.HasSuffix(second.QuoteNumber, "-0002") {
		t.Errorf("second number = %q", second.QuoteNumber)
	}
}

func TestCreateRejectsBadItems(t *testing.T) {
	svc := New(newFakeRepo(), nil, nil, &recordingBus{}, slog.Default())

	params := validCreate(nil)
	params.Items = nil
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("empty items: kind = %v, want validation", apperr.GetKind(err))
	}

	params = validCreate(nil)
	params.Items[0].Quantity = 0
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("zero quantity: kind = %v, want validation", apperr.GetKind(err))
	}

	params = validCreate(nil)
	params.DiscountPct = 120
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("discount > 100: kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestUpdateStatusWhitelist(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, &recordingBus{}, slog.Default())
	params := validCreate(nil)
	params.Status = domain.StatusSent
	quote, _ := svc.Create(context.Background(), params)

	// sent -> viewed -> accepted is the happy path.
	if _, err := svc.UpdateStatus(context.Background(), quote.ID, domain.StatusViewed); err != nil {
		t.Fatalf("sent -> viewed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), quote.ID, domain.StatusAccepted); err != nil {
		t.Fatalf("viewed -> accepted: %v", err)
	}
	// accepted is terminal.
	if _, err := svc.UpdateStatus(context.Background(), quote.ID, domain.StatusRejected); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("accepted -> rejected: kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestSendingDraftForcesPipelineAgain(t *testing.T) {
	repo := newFakeRepo()
	forcer := &fakeForcer{}
	svc := New(repo, forcer, nil, &recordingBus{}, slog.Default())

	pipelineID := uuid.New()
	quote, err := svc.Create(context.Background(), validCreate(&pipelineID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quote.Status != domain.StatusDraft {
		t.Fatalf("status = %s, want draft", quote.Status)
	}
	if len(forcer.calls) != 1 {
		t.Fatalf("creation forced the pipeline %d times, want 1", len(forcer.calls))
	}

	// Sending repeats the force; the transition repo layer makes it a no-op
	// when the entry already sits at quote_sent.
	if _, err := svc.UpdateStatus(context.Background(), quote.ID, domain.StatusSent); err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	if len(forcer.calls) != 2 || forcer.calls[1] != pipelineID {
		t.Errorf("forcer calls = %v, want a second force on %s", forcer.calls, pipelineID)
	}
}

func TestPDFURLWithoutStorage(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, nil, &recordingBus{}, slog.Default())
	quote, _ := svc.Create(context.Background(), validCreate(nil))

	if _, err := svc.PDFURL(context.Background(), quote.ID); apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("kind = %v, want bad request", apperr.GetKind(err))
	}
}

type fakeStorage struct{}

func (fakeStorage) PresignedQuotePDFURL(_ context.Context, quoteNumber string) (string, error) {
	return "https://minio.local/quote-pdfs/" + quoteNumber + ".pdf?sig=abc", nil
}

func TestPDFURLWithStorage(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, fakeStorage{}, &recordingBus{}, slog.Default())
	quote, _ := svc.Create(context.Background(), validCreate(nil))

	url, err := svc.PDFURL(context.Background(), quote.ID)
	if err != nil {
		t.Fatalf("PDFURL: %v", err)
	}
	if !strings.Contains(url, quote.QuoteNumber) {
		t.Errorf("url %q does not reference the quote number", url)
	}
}
