// Package service implements mission workflows.
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
	"jobguinee_backend/internal/missions/domain"
	"jobguinee_backend/internal/missions/repository"
	"jobguinee_backend/platform/apperr"
	"jobguinee_backend/platform/phone"
)

// MissionRepository is the persistence surface the service needs.
type MissionRepository interface {
	NextSequence(ctx context.Context, key string) (int64, error)
	Create(ctx context.Context, mission domain.Mission, forcePipeline func(ctx context.Context, tx pgx.Tx) error) (domain.Mission, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Mission, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Mission, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, validate func(from domain.Status) error) (domain.Mission, domain.Status, error)
}

// PipelineForcer moves a pipeline entry to mission_active inside the
// caller's transaction. A second mission on the same entry is expected: the
// force must be an idempotent no-op when already mission_active.
type PipelineForcer interface {
	ForceMissionActiveTx(ctx context.Context, tx pgx.Tx, pipelineID uuid.UUID) (changed bool, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo     MissionRepository
	pipeline PipelineForcer
	bus      EventPublisher
	logger   *slog.Logger
	now      func() time.Time
}

func New(repo MissionRepository, pipeline PipelineForcer, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, pipeline: pipeline, bus: bus, logger: logger, now: time.Now}
}

type CreateParams struct {
	PipelineID         *uuid.UUID
	QuoteID            *uuid.UUID
	LeadID             *uuid.UUID
	Name               string
	Type               domain.Type
	ClientCompany      string
	ClientContactName  string
	ClientContactEmail string
	ClientContactPhone *string
	JobTitle           *string
	JobDescription     *string
	PositionsCount     int
	ContractValue      *int64
	StartDate          *time.Time
	ExpectedEndDate    *time.Time
}

// Create persists a mission and, when linked to a pipeline entry, forces
// that entry to mission_active in the same transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (domain.Mission, error) {
	const op = "missions.Create"

	if !domain.IsKnownType(params.Type) {
		return domain.Mission{}, apperr.Validation(op, fmt.Sprintf("unknown mission type %q", params.Type))
	}
	if params.PositionsCount < 0 {
		return domain.Mission{}, apperr.Validation(op, "positions count cannot be negative")
	}
	if params.ContractValue != nil && *params.ContractValue < 0 {
		return domain.Mission{}, apperr.Validation(op, "contract value cannot be negative")
	}
	if params.StartDate != nil && params.ExpectedEndDate != nil && params.ExpectedEndDate.Before(*params.StartDate) {
		return domain.Mission{}, apperr.Validation(op, "expected end date precedes start date")
	}

	mission := domain.Mission{
		ID:                 uuid.New(),
		PipelineID:         params.PipelineID,
		QuoteID:            params.QuoteID,
		LeadID:             params.LeadID,
		MissionNumber:      s.nextMissionNumber(ctx),
		Name:               params.Name,
		Type:               params.Type,
		ClientCompany:      params.ClientCompany,
		ClientContactName:  params.ClientContactName,
		ClientContactEmail: params.ClientContactEmail,
		JobTitle:           params.JobTitle,
		JobDescription:     params.JobDescription,
		PositionsCount:     params.PositionsCount,
		Status:             domain.StatusPending,
		ContractValue:      params.ContractValue,
		StartDate:          params.StartDate,
		ExpectedEndDate:    params.ExpectedEndDate,
	}
	if params.ClientContactPhone != nil {
		normalized := phone.NormalizeE164(*params.ClientContactPhone)
		if normalized != "" {
			mission.ClientContactPhone = &normalized
		}
	}

	var force func(ctx context.Context, tx pgx.Tx) error
	if params.PipelineID != nil && s.pipeline != nil {
		pipelineID := *params.PipelineID
		force = func(ctx context.Context, tx pgx.Tx) error {
			_, err := s.pipeline.ForceMissionActiveTx(ctx, tx, pipelineID)
			return err
		}
	}

	created, err := s.repo.Create(ctx, mission, force)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Mission{}, err
		}
		return domain.Mission{}, apperr.Internal(op, "failed to create mission", err)
	}

	s.bus.Publish(ctx, events.MissionCreated{
		BaseEvent:     events.NewBaseEvent(),
		MissionID:     created.ID,
		PipelineID:    created.PipelineID,
		QuoteID:       created.QuoteID,
		MissionNumber: created.MissionNumber,
		MissionType:   string(created.Type),
		ClientCompany: created.ClientCompany,
	})
	return created, nil
}

// nextMissionNumber produces MIS-<year>-<seq> with the same counter and
// timestamp fallback as quote numbering.
func (s *Service) nextMissionNumber(ctx context.Context) string {
	year := s.now().Year()
	seq, err := s.repo.NextSequence(ctx, fmt.Sprintf("mission:%d", year))
	if err != nil {
		s.logger.Error("mission counter unavailable, falling back to timestamp number",
			slog.String("error", err.Error()))
		return fmt.Sprintf("MIS-%d", s.now().UnixMilli())
	}
	return fmt.Sprintf("MIS-%d-%04d", year, seq)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Mission, error) {
	const op = "missions.Get"
	mission, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Mission{}, apperr.NotFound(op, "mission not found")
	}
	if err != nil {
		return domain.Mission{}, apperr.Internal(op, "failed to load mission", err)
	}
	return mission, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]domain.Mission, int, error) {
	const op = "missions.List"
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	missions, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Internal(op, "failed to list missions", err)
	}
	return missions, total, nil
}

// UpdateStatus applies a mission status change against the whitelist. The
// pipeline entry is untouched; only mission creation cascades upward.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status) (domain.Mission, error) {
	const op = "missions.UpdateStatus"

	if !domain.IsKnownStatus(to) {
		return domain.Mission{}, apperr.Validation(op, fmt.Sprintf("unknown mission status %q", to))
	}

	mission, from, err := s.repo.UpdateStatus(ctx, id, to, func(from domain.Status) error {
		if !domain.CanTransition(from, to) {
			return apperr.Conflict(op, fmt.Sprintf("cannot transition mission from %s to %s", from, to))
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Mission{}, apperr.NotFound(op, "mission not found")
	}
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Mission{}, err
		}
		return domain.Mission{}, apperr.Internal(op, "failed to update mission status", err)
	}

	s.bus.Publish(ctx, events.MissionStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		MissionID:  mission.ID,
		FromStatus: string(from),
		ToStatus:   string(mission.Status),
	})
	return mission, nil
}
