// Package service implements lead intake and admin lead management.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/leads/domain"
	"jobguinee_backend/internal/leads/repository"
	pipelinedomain "jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/platform/apperr"
	"jobguinee_backend/platform/phone"
)

// LeadRepository is the persistence surface the service needs.
type LeadRepository interface {
	Create(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]domain.Lead, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, notes *string, validate func(from domain.Status) error) (domain.Lead, domain.Status, error)
	Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Lead, error)
}

// PipelineCreator opens the pipeline entry tied to a new lead.
type PipelineCreator interface {
	CreateForLead(ctx context.Context, leadID uuid.UUID, acq pipelinedomain.Acquisition, estimatedValue *int64) (pipelinedomain.Entry, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event)
}

type Service struct {
	repo     LeadRepository
	pipeline PipelineCreator
	bus      EventPublisher
	logger   *slog.Logger
}

func New(repo LeadRepository, pipeline PipelineCreator, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, pipeline: pipeline, bus: bus, logger: logger}
}

// SubmitParams is a validated public form submission. Whatever status the
// caller sent has already been stripped; intake always starts at nouveau.
type SubmitParams struct {
	OrganizationName string
	OrganizationType domain.OrganizationType
	Sector           string
	PrimaryNeed      domain.PrimaryNeed
	Urgency          domain.Urgency
	ContactName      string
	ContactEmail     string
	ContactPhone     *string
	Message          *string
	Acquisition      pipelinedomain.Acquisition
	EstimatedValue   *int64
}

// Submit persists a public lead submission and opens its pipeline entry.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (domain.Lead, error) {
	const op = "leads.Submit"

	if !domain.IsKnownOrganizationType(params.OrganizationType) {
		return domain.Lead{}, apperr.Validation(op, fmt.Sprintf("unknown organization type %q", params.OrganizationType))
	}
	if !domain.IsKnownPrimaryNeed(params.PrimaryNeed) {
		return domain.Lead{}, apperr.Validation(op, fmt.Sprintf("unknown primary need %q", params.PrimaryNeed))
	}
	if !domain.IsKnownUrgency(params.Urgency) {
		return domain.Lead{}, apperr.Validation(op, fmt.Sprintf("unknown urgency %q", params.Urgency))
	}

	lead := domain.Lead{
		ID:               uuid.New(),
		OrganizationName: strings.TrimSpace(params.OrganizationName),
		OrganizationType: params.OrganizationType,
		Sector:           strings.TrimSpace(params.Sector),
		PrimaryNeed:      params.PrimaryNeed,
		Urgency:          params.Urgency,
		ContactName:      strings.TrimSpace(params.ContactName),
		ContactEmail:     strings.ToLower(strings.TrimSpace(params.ContactEmail)),
		Message:          params.Message,
		Status:           domain.StatusNouveau,
	}
	if params.ContactPhone != nil {
		normalized := phone.NormalizeE164(*params.ContactPhone)
		if normalized != "" {
			lead.ContactPhone = &normalized
		}
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, "failed to create lead", err)
	}

	entry, err := s.pipeline.CreateForLead(ctx, created.ID, params.Acquisition, params.EstimatedValue)
	if err != nil {
		// The lead is already captured; a missing pipeline entry is repairable
		// from the admin side and must not lose the submission.
		s.logger.Error("failed to open pipeline entry for lead",
			slog.String("lead_id", created.ID.String()),
			slog.String("error", err.Error()))
	}

	evt := events.LeadCreated{
		BaseEvent:        events.NewBaseEvent(),
		LeadID:           created.ID,
		OrganizationName: created.OrganizationName,
		OrganizationType: string(created.OrganizationType),
		PrimaryNeed:      string(created.PrimaryNeed),
		Urgency:          string(created.Urgency),
		ContactName:      created.ContactName,
		ContactEmail:     created.ContactEmail,
	}
	if err == nil {
		evt.PipelineID = &entry.ID
	}
	s.bus.Publish(ctx, evt)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	const op = "leads.Get"
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(op, "lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, "failed to load lead", err)
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]domain.Lead, int, error) {
	const op = "leads.List"
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Internal(op, "failed to list leads", err)
	}
	return leads, total, nil
}

// UpdateStatus applies an admin-driven lead status change against the
// whitelist and publishes the change.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.Status, notes *string, actorID uuid.UUID) (domain.Lead, error) {
	const op = "leads.UpdateStatus"

	if !domain.IsKnownStatus(to) {
		return domain.Lead{}, apperr.Validation(op, fmt.Sprintf("unknown lead status %q", to))
	}

	lead, from, err := s.repo.UpdateStatus(ctx, id, to, notes, func(from domain.Status) error {
		if !domain.CanTransition(from, to) {
			return apperr.Conflict(op, fmt.Sprintf("cannot transition lead from %s to %s", from, to))
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(op, "lead not found")
	}
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return domain.Lead{}, err
		}
		return domain.Lead{}, apperr.Internal(op, "failed to update lead status", err)
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		FromStatus: string(from),
		ToStatus:   string(lead.Status),
		ActorID:    actorID,
	})
	return lead, nil
}

func (s *Service) Assign(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (domain.Lead, error) {
	const op = "leads.Assign"
	lead, err := s.repo.Assign(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound(op, "lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Internal(op, "failed to assign lead", err)
	}
	return lead, nil
}
