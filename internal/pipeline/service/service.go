// Package service implements pipeline workflows on top of the repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/internal/pipeline/repository"
	"jobguinee_backend/platform/apperr"
)

// EntryRepository is the persistence surface the service needs.
type EntryRepository interface {
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)
	GetByLeadID(ctx context.Context, leadID uuid.UUID) (domain.Entry, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Entry, int, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateParams) (domain.Entry, error)
	Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Entry, error)
	Transition(ctx context.Context, id uuid.UUID, to domain.Status, note *string, validate func(from domain.Status) error) (domain.Entry, domain.Status, error)
	StatsRows(ctx context.Context) ([]domain.StatsRow, error)
}

// FollowUpScheduler enqueues a reminder for an entry's next follow-up date.
// The zero value of the service runs without one; reminders are then skipped.
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, entryID uuid.UUID, at time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo      EntryRepository
	bus       EventPublisher
	scheduler FollowUpScheduler
	logger    *slog.Logger
}

func New(repo EntryRepository, bus EventPublisher, scheduler FollowUpScheduler, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, scheduler: scheduler, logger: logger}
}

// CreateForLead opens a pipeline entry for a freshly captured lead. Called
// by the lead intake flow; every lead gets exactly one entry.
func (s *Service) CreateForLead(ctx context.Context, leadID uuid.UUID, acq domain.Acquisition, estimatedValue *int64) (domain.Entry, error) {
	const op = "pipeline.CreateForLead"

	entry, err := s.repo.Create(ctx, domain.NewEntry(&leadID, acq, estimatedValue))
	if err != nil {
		return domain.Entry{}, apperr.Internal(op, "failed to create pipeline entry", err)
	}

	sourcePage := ""
	if entry.SourcePage != nil {
		sourcePage = *entry.SourcePage
	}
	s.bus.Publish(ctx, events.PipelineEntryCreated{
		BaseEvent:  events.NewBaseEvent(),
		EntryID:    entry.ID,
		LeadID:     entry.LeadID,
		SourceType: string(entry.SourceType),
		SourcePage: sourcePage,
	})
	return entry, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	const op = "pipeline.Get"
	entry, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Entry{}, apperr.NotFound(op, "pipeline entry not found")
	}
	if err != nil {
		return domain.Entry{}, apperr.Internal(op, "failed to load pipeline entry", err)
	}
	return entry, nil
}

func (s *Service) GetByLeadID(ctx context.Context, leadID uuid.UUID) (domain.Entry, error) {
	const op = "pipeline.GetByLeadID"
	entry, err := s.repo.GetByLeadID(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Entry{}, apperr.NotFound(op, "pipeline entry not found")
	}
	if err != nil {
		return domain.Entry{}, apperr.Internal(op, "failed to load pipeline entry", err)
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]domain.Entry, int, error) {
	const op = "pipeline.List"
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Internal(op, "failed to list pipeline entries", err)
	}
	return entries, total, nil
}

type UpdateDetailsParams struct {
	Score              *int
	Priority           *domain.Priority
	EstimatedValue     *int64
	Probability        *int
	Notes              *string
	QualificationNotes *string
	NextFollowUpDate   *time.Time
	ClearFollowUp      bool
}

// UpdateDetails changes commercial fields and, when a follow-up date is set,
// schedules the reminder.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, params UpdateDetailsParams) (domain.Entry, error) {
	const op = "pipeline.UpdateDetails"

	if params.Score != nil && (*params.Score < 0 || *params.Score > 100) {
		return domain.Entry{}, apperr.Validation(op, "score must be between 0 and 100")
	}
	if params.Probability != nil && (*params.Probability < 0 || *params.Probability > 100) {
		return domain.Entry{}, apperr.Validation(op, "probability must be between 0 and 100")
	}
	if params.Priority != nil && !domain.IsKnownPriority(*params.Priority) {
		return domain.Entry{}, apperr.Validation(op, fmt.Sprintf("unknown priority %q", *params.Priority))
	}
	if params.EstimatedValue != nil && *params.EstimatedValue < 0 {
		return domain.Entry{}, apperr.Validation(op, "estimated value cannot be negative")
	}

	entry, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Score:              params.Score,
		Priority:           params.Priority,
		EstimatedValue:     params.EstimatedValue,
		Probability:        params.Probability,
		Notes:              params.Notes,
		QualificationNotes: params.QualificationNotes,
		NextFollowUpDate:   params.NextFollowUpDate,
		ClearFollowUp:      params.ClearFollowUp,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Entry{}, apperr.NotFound(op, "pipeline entry not found")
	}
	if err != nil {
		return domain.Entry{}, apperr.Internal(op, "failed to update pipeline entry", err)
	}

	if params.NextFollowUpDate != nil && s.scheduler != nil {
		if err := s.scheduler.ScheduleFollowUp(ctx, entry.ID, *params.NextFollowUpDate); err != nil {
			// The update itself succeeded; a lost reminder is logged, not fatal.
			s.logger.Error("failed to schedule follow-up reminder",
				slog.String("entry_id", entry.ID.String()),
				slog.String("error", err.Error()))
		}
	}
	return entry, nil
}

func (s *Service) Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Entry, error) {
	const op = "pipeline.Assign"
	entry, err := s.repo.Assign(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Entry{}, apperr.NotFound(op, "pipeline entry not found")
	}
	if err != nil {
		return domain.Entry{}, apperr.Internal(op, "failed to assign pipeline entry", err)
	}
	return entry, nil
}

// Transition applies an admin-driven status change against the whitelist.
// An illegal move reports a conflict with both statuses named.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to domain.Status, note *string) (domain.Entry, error) {
	const op = "pipeline.Transition"

	if !domain.IsKnown(to) {
		return domain.Entry{}, apperr.Validation(op, fmt.Sprintf("unknown pipeline status %q", to))
	}

	entry, from, err := s.repo.Transition(ctx, id, to, note, func(from domain.Status) error {
		if !domain.CanTransition(from, to) {
			return apperr.Conflict(op, fmt.Sprintf("cannot transition pipeline entry from %s to %s", from, to))
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Entry{}, apperr.NotFound(op, "pipeline entry not found")
	}
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Entry{}, err
		}
		return domain.Entry{}, apperr.Internal(op, "failed to transition pipeline entry", err)
	}

	s.bus.Publish(ctx, events.PipelineStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		EntryID:    entry.ID,
		LeadID:     entry.LeadID,
		FromStatus: string(from),
		ToStatus:   string(entry.Status),
	})
	return entry, nil
}
