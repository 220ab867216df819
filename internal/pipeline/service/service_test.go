package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/internal/pipeline/repository"
	"jobguinee_backend/platform/apperr"
)

type fakeRepo struct {
	entries map[uuid.UUID]*domain.Entry
	rows    []domain.StatsRow
	scans   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[uuid.UUID]*domain.Entry)}
}

func (f *fakeRepo) Create(_ context.Context, entry domain.Entry) (domain.Entry, error) {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	f.entries[entry.ID] = &entry
	return entry, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return domain.Entry{}, repository.ErrNotFound
	}
	return *e, nil
}

func (f *fakeRepo) GetByLeadID(_ context.Context, leadID uuid.UUID) (domain.Entry, error) {
	for _, e := range f.entries {
		if e.LeadID != nil && *e.LeadID == leadID {
			return *e, nil
		}
	}
	return domain.Entry{}, repository.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Entry, int, error) {
	out := make([]domain.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (domain.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return domain.Entry{}, repository.ErrNotFound
	}
	if params.Score != nil {
		e.Score = *params.Score
	}
	if params.NextFollowUpDate != nil {
		e.NextFollowUpDate = params.NextFollowUpDate
	}
	if params.ClearFollowUp {
		e.NextFollowUpDate = nil
	}
	return *e, nil
}

func (f *fakeRepo) Assign(_ context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Entry, error) {
	e, ok := f.entries[id]
	if !ok {
		return domain.Entry{}, repository.ErrNotFound
	}
	e.AssignedTo = userID
	return *e, nil
}

func (f *fakeRepo) Transition(_ context.Context, id uuid.UUID, to domain.Status, note *string, validate func(from domain.Status) error) (domain.Entry, domain.Status, error) {
	e, ok := f.entries[id]
	if !ok {
		return domain.Entry{}, "", repository.ErrNotFound
	}
	from := e.Status
	if err := validate(from); err != nil {
		return domain.Entry{}, from, err
	}
	domain.ApplyTransitionEffects(e, to, note, time.Now())
	return *e, from, nil
}

func (f *fakeRepo) StatsRows(_ context.Context) ([]domain.StatsRow, error) {
	f.scans++
	return f.rows, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func newTestService(repo *fakeRepo) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return New(repo, bus, nil, slog.Default()), bus
}

func TestCreateForLeadPublishesEvent(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	leadID := uuid.New()
	entry, err := svc.CreateForLead(context.Background(), leadID, domain.Acquisition{}, nil)
	if err != nil {
		t.Fatalf("CreateForLead: %v", err)
	}
	if entry.Status != domain.StatusNewLead {
		t.Errorf("status = %s, want new_lead", entry.Status)
	}
	if entry.SourceType != domain.SourceSEO {
		t.Errorf("empty source should default to seo, got %s", entry.SourceType)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if bus.published[0].EventName() != "b2b.pipeline.entry_created" {
		t.Errorf("event = %s", bus.published[0].EventName())
	}
}

func TestTransitionIllegalMoveIsConflict(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)
	bus.published = nil

	_, err := svc.Transition(context.Background(), entry.ID, domain.StatusPaid, nil)
	if err == nil {
		t.Fatal("expected error for new_lead -> paid")
	}
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("kind = %v, want conflict", apperr.GetKind(err))
	}
	if len(bus.published) != 0 {
		t.Errorf("illegal transition must not publish events, got %d", len(bus.published))
	}
}

func TestTransitionLegalMovePublishesChange(t *testing.T) {
	repo := newFakeRepo()
	svc, bus := newTestService(repo)

	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)
	bus.published = nil

	updated, err := svc.Transition(context.Background(), entry.ID, domain.StatusContacted, nil)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != domain.StatusContacted {
		t.Errorf("status = %s, want contacted", updated.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	change, ok := bus.published[0].(events.PipelineStatusChanged)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if change.FromStatus != "new_lead" || change.ToStatus != "contacted" {
		t.Errorf("event carried %s -> %s", change.FromStatus, change.ToStatus)
	}
}

func TestTransitionStampsContactedOnce(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)

	first, err := svc.Transition(context.Background(), entry.ID, domain.StatusContacted, nil)
	if err != nil {
		t.Fatalf("new_lead -> contacted: %v", err)
	}
	if first.ContactedAt == nil {
		t.Fatal("contacted_at not stamped on first contact")
	}
	stamp := *first.ContactedAt

	// Lose the deal and reopen it into contacted; the original stamp stays.
	if _, err := svc.Transition(context.Background(), entry.ID, domain.StatusLost, nil); err != nil {
		t.Fatalf("contacted -> lost: %v", err)
	}
	again, err := svc.Transition(context.Background(), entry.ID, domain.StatusContacted, nil)
	if err != nil {
		t.Fatalf("lost -> contacted: %v", err)
	}
	if again.ContactedAt == nil || !again.ContactedAt.Equal(stamp) {
		t.Errorf("contacted_at = %v after second contact, want first stamp %v", again.ContactedAt, stamp)
	}
}

func TestTransitionUnknownStatusIsValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)

	_, err := svc.Transition(context.Background(), entry.ID, domain.Status("archived"), nil)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestTransitionUnknownEntry(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Transition(context.Background(), uuid.New(), domain.StatusContacted, nil)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("kind = %v, want not found", apperr.GetKind(err))
	}
}

func TestUpdateDetailsValidatesRanges(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)

	bad := 120
	_, err := svc.UpdateDetails(context.Background(), entry.ID, UpdateDetailsParams{Score: &bad})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", apperr.GetKind(err))
	}
}

type recordingScheduler struct {
	calls []uuid.UUID
	fail  bool
}

func (s *recordingScheduler) ScheduleFollowUp(_ context.Context, entryID uuid.UUID, _ time.Time) error {
	s.calls = append(s.calls, entryID)
	if s.fail {
		return errors.New("broker down")
	}
	return nil
}

func TestUpdateDetailsSchedulesFollowUp(t *testing.T) {
	repo := newFakeRepo()
	sched := &recordingScheduler{}
	svc := New(repo, &recordingBus{}, sched, slog.Default())
	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)

	at := time.Now().Add(48 * time.Hour)
	if _, err := svc.UpdateDetails(context.Background(), entry.ID, UpdateDetailsParams{NextFollowUpDate: &at}); err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if len(sched.calls) != 1 || sched.calls[0] != entry.ID {
		t.Errorf("scheduler calls = %v, want one for %s", sched.calls, entry.ID)
	}
}

func TestUpdateDetailsSchedulerFailureIsNotFatal(t *testing.T) {
	repo := newFakeRepo()
	sched := &recordingScheduler{fail: true}
	svc := New(repo, &recordingBus{}, sched, slog.Default())
	entry, _ := svc.CreateForLead(context.Background(), uuid.New(), domain.Acquisition{SourceType: "seo"}, nil)

	at := time.Now().Add(time.Hour)
	if _, err := svc.UpdateDetails(context.Background(), entry.ID, UpdateDetailsParams{NextFollowUpDate: &at}); err != nil {
		t.Fatalf("scheduler failure must not fail the update: %v", err)
	}
}

func TestStatsServiceCachesResult(t *testing.T) {
	repo := newFakeRepo()
	repo.rows = []domain.StatsRow{
		{Status: domain.StatusWon, SourceType: domain.SourceSEO, CreatedAt: time.Now()},
		{Status: domain.StatusLost, SourceType: domain.SourceDirect, CreatedAt: time.Now()},
	}
	cache := &memStatsCache{}
	stats := NewStatsService(repo, cache, slog.Default())

	first, err := stats.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if first.Total != 2 || first.ConversionRatePct != 50 {
		t.Errorf("unexpected aggregate: %+v", first)
	}

	if _, err := stats.Statistics(context.Background()); err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if repo.scans != 1 {
		t.Errorf("table scanned %d times, want 1 (second read served from cache)", repo.scans)
	}
}

type memStatsCache struct {
	stats *domain.Statistics
}

func (c *memStatsCache) Get(_ context.Context) (domain.Statistics, bool, error) {
	if c.stats == nil {
		return domain.Statistics{}, false, nil
	}
	return *c.stats, true, nil
}

func (c *memStatsCache) Set(_ context.Context, stats domain.Statistics) error {
	c.stats = &stats
	return nil
}
