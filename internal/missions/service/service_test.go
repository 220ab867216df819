package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/missions/domain"
	"jobguinee_backend/internal/missions/repository"
	"jobguinee_backend/platform/apperr"
)

type fakeRepo struct {
	missions map[uuid.UUID]*domain.Mission
	seq      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{missions: make(map[uuid.UUID]*domain.Mission)}
}

func (f *fakeRepo) NextSequence(_ context.Context, _ string) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeRepo) Create(ctx context.Context, mission domain.Mission, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Mission, error) {
	if forcePipeline != nil {
		if err := forcePipeline(ctx, nil); err != nil {
			return domain.Mission{}, err
		}
	}
	f.missions[mission.ID] = &mission
	return mission, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Mission, error) {
	m, ok := f.missions[id]
	if !ok {
		return domain.Mission{}, repository.ErrNotFound
	}
	return *m, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]domain.Mission, int, error) {
	out := make([]domain.Mission, 0, len(f.missions))
	for _, m := range f.missions {
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error) (domain.Mission, domain.Status, error) {
	m, ok := f.missions[id]
	if !ok {
		return domain.Mission{}, "", repository.ErrNotFound
	}
	from := m.Status
	if err := validate(from); err != nil {
		return domain.Mission{}, from, err
	}
	m.Status = to
	return *m, from, nil
}

// idempotentForcer mimics the pipeline side: the first force flips the
// entry, later forces see the target status and change nothing.
type idempotentForcer struct {
	status  string
	forces  int
	changes int
}

func (f *idempotentForcer) ForceMissionActiveTx(_ context.Context, _ pgx.Tx, _ uuid.UUID) (bool, error) {
	f.forces++
	if f.status == "mission_active" {
		return false, nil
	}
	f.status = "mission_active"
	f.changes++
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
		PipelineID:         pipelineID,
		Name:               "Externalisation SMB",
		Type:               domain.TypeExternalisation,
		ClientCompany:      "Société Minière de Boké",
		ClientContactName:  "Mamadou Diallo",
		ClientContactEmail: "m.diallo@smb.gn",
		PositionsCount:     2,
	}
}

func TestCreateDefaultsAndNumbering(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, nil, bus, slog.Default())

	mission, err := svc.Create(context.Background(), validCreate(nil))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if mission.Status != domain.StatusPending {
		t.Errorf("status = %s, want pending", mission.Status)
	}
	if !strings.HasPrefix(mission.MissionNumber, "MIS-") || !strings.HasSuffix(mission.MissionNumber, "-0001") {
		t.Errorf("mission number = %q", mission.MissionNumber)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "b2b.mission.created" {
		t.Errorf("events = %v", bus.published)
	}
}

func TestSecondMissionOnSameEntrySucceeds(t *testing.T) {
	repo := newFakeRepo()
	forcer := &idempotentForcer{status: "won"}
	svc := New(repo, forcer, &recordingBus{}, slog.Default())

	pipelineID := uuid.New()
	if _, err := svc.Create(context.Background(), validCreate(&pipelineID)); err != nil {
		t.Fatalf("first mission: %v", err)
	}
	if _, err := svc.Create(context.Background(), validCreate(&pipelineID)); err != nil {
		t.Fatalf("second mission on the same entry: %v", err)
	}
	if forcer.forces != 2 {
		t.Errorf("forces = %d, want 2", forcer.forces)
	}
	if forcer.changes != 1 {
		t.Errorf("pipeline changed %d times, want 1 (second force is a no-op)", forcer.changes)
	}
	if len(repo.missions) != 2 {
		t.Errorf("missions persisted = %d, want 2", len(repo.missions))
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(newFakeRepo(), nil, &recordingBus{}, slog.Default())

	params := validCreate(nil)
	params.Type = "audit"
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("unknown type: kind = %v, want validation", apperr.GetKind(err))
	}

	params = validCreate(nil)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	params.StartDate, params.ExpectedEndDate = &start, &end
	if _, err := svc.Create(context.Background(), params); apperr.GetKind(err) != apperr.KindValidation {
		t.Errorf("end before start: kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestUpdateStatusWhitelist(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil, &recordingBus{}, slog.Default())
	mission, _ := svc.Create(context.Background(), validCreate(nil))

	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusCompleted); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("pending -> completed: kind = %v, want conflict", apperr.GetKind(err))
	}

	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusActive); err != nil {
		t.Fatalf("pending -> active: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusPaused); err != nil {
		t.Fatalf("active -> paused: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusCompleted); err != nil {
		t.Fatalf("paused -> completed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusArchived); err != nil {
		t.Fatalf("completed -> archived: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), mission.ID, domain.StatusActive); apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("archived is terminal: kind = %v, want conflict", apperr.GetKind(err))
	}
}
