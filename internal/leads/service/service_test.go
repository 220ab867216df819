package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/leads/domain"
	"jobguinee_backend/internal/leads/repository"
	pipelinedomain "jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/platform/apperr"
)

type fakeRepo struct {
	leads map[uuid.UUID]*domain.Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]*domain.Lead)}
}

func (f *fakeRepo) Create(_ context.Context, lead domain.Lead) (domain.Lead, error) {
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	f.leads[lead.ID] = &lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return *l, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Lead, int, error) {
	out := make([]domain.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, to domain.Status, notes *string, validate func(from domain.Status) error) (domain.Lead, domain.Status, error) {
	l, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, "", repository.ErrNotFound
	}
	from := l.Status
	if err := validate(from); err != nil {
		return domain.Lead{}, from, err
	}
	l.Status = to
	if notes != nil {
		l.Notes = notes
	}
	return *l, from, nil
}

func (f *fakeRepo) Assign(_ context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	l.AssignedTo = userID
	return *l, nil
}

type fakePipeline struct {
	calls []pipelinedomain.Acquisition
	fail  bool
}

func (f *fakePipeline) CreateForLead(_ context.Context, leadID uuid.UUID, acq pipelinedomain.Acquisition, estimatedValue *int64) (pipelinedomain.Entry, error) {
	f.calls = append(f.calls, acq)
	if f.fail {
		return pipelinedomain.Entry{}, context.DeadlineExceeded
	}
	return pipelinedomain.NewEntry(&leadID, acq, estimatedValue), nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func validSubmit() SubmitParams {
	phone := "620 12 34 56"
	return SubmitParams{
		OrganizationName: "  Société Minière de Boké ",
		OrganizationType: domain.OrgEntreprise,
		Sector:           "Mines",
		PrimaryNeed:      domain.NeedExternalisation,
		Urgency:          domain.UrgencyUrgent,
		ContactName:      "Mamadou Diallo",
		ContactEmail:     "M.Diallo@SMB.gn ",
		ContactPhone:     &phone,
		Acquisition:      pipelinedomain.Acquisition{SourceType: "seo"},
	}
}

func TestSubmitForcesNouveauAndNormalizes(t *testing.T) {
	repo := newFakeRepo()
	pipe := &fakePipeline{}
	bus := &recordingBus{}
	svc := New(repo, pipe, bus, slog.Default())

	lead, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if lead.Status != domain.StatusNouveau {
		t.Errorf("status = %s, want nouveau", lead.Status)
	}
	if lead.OrganizationName != "Société Minière de Boké" {
		t.Errorf("organization name not trimmed: %q", lead.OrganizationName)
	}
	if lead.ContactEmail != "m.diallo@smb.gn" {
		t.Errorf("email not normalized: %q", lead.ContactEmail)
	}
	if lead.ContactPhone == nil || *lead.ContactPhone != "+224620123456" {
		t.Errorf("phone not normalized to E.164: %v", lead.ContactPhone)
	}
	if len(pipe.calls) != 1 {
		t.Fatalf("pipeline entries created = %d, want 1", len(pipe.calls))
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	created, ok := bus.published[0].(events.LeadCreated)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if created.PipelineID == nil {
		t.Error("event missing pipeline id")
	}
}

func TestSubmitRejectsUnknownEnums(t *testing.T) {
	svc := New(newFakeRepo(), &fakePipeline{}, &recordingBus{}, slog.Default())

	params := validSubmit()
	params.OrganizationType = "startup"
	if _, err := svc.Submit(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("organization type: kind = %v, want validation", apperr.GetKind(err))
	}

	params = validSubmit()
	params.Urgency = "asap"
	if _, err := svc.Submit(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("urgency: kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestSubmitSurvivesPipelineFailure(t *testing.T) {
	repo := newFakeRepo()
	pipe := &fakePipeline{fail: true}
	bus := &recordingBus{}
	svc := New(repo, pipe, bus, slog.Default())

	lead, err := svc.Submit(context.Background(), validSubmit())
	if err != nil {
		t.Fatalf("a pipeline failure must not lose the lead: %v", err)
	}
	if _, ok := repo.leads[lead.ID]; !ok {
		t.Error("lead not persisted")
	}
	created := bus.published[0].(events.LeadCreated)
	if created.PipelineID != nil {
		t.Error("event should not carry a pipeline id when entry creation failed")
	}
}

func TestUpdateStatusWhitelist(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, &fakePipeline{}, &recordingBus{}, slog.Default())
	lead, _ := svc.Submit(context.Background(), validSubmit())
	actor := uuid.New()

	if _, err := svc.UpdateStatus(context.Background(), lead.ID, domain.StatusConverti, nil, actor); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("nouveau -> converti: kind = %v, want conflict", apperr.GetKind(err))
	}

	updated, err := svc.UpdateStatus(context.Background(), lead.ID, domain.StatusContacte, nil, actor)
	if err != nil {
		t.Fatalf("nouveau -> contacte: %v", err)
	}
	if updated.Status != domain.StatusContacte {
		t.Errorf("status = %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), lead.ID, domain.Status("archive"), nil, actor); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown status: kind = %v, want validation", apperr.GetKind(err))
	}
}
