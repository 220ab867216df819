// Package service implements page section management.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"jobguinee_backend/internal/pageconfig/domain"
	"jobguinee_backend/internal/pageconfig/repository"
	"jobguinee_backend/platform/apperr"
)

// SectionRepository is the persistence surface the service needs.
type SectionRepository interface {
	ListActive(ctx context.Context) ([]domain.Section, error)
	ListAll(ctx context.Context) ([]domain.Section, error)
	UpdateBySection(ctx context.Context, sectionName string, params repository.UpdateParams) (domain.Section, error)
	SetVisibility(ctx context.Context, sectionName string, isActive bool) (domain.Section, error)
}

type Service struct {
	repo   SectionRepository
	logger *slog.Logger
}

func New(repo SectionRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListActive returns the sections shown on the public page.
func (s *Service) ListActive(ctx context.Context) ([]domain.Section, error) {
	const op = "pageconfig.ListActive"
	sections, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internal(op, "failed to load page sections", err)
	}
	return sections, nil
}

// ListAll returns every section, including hidden ones.
func (s *Service) ListAll(ctx context.Context) ([]domain.Section, error) {
	const op = "pageconfig.ListAll"
	sections, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(op, "failed to load page sections", err)
	}
	return sections, nil
}

// Update applies a partial update to the named section. Malformed JSON in
// content or seo_config is rejected rather than silently dropped.
func (s *Service) Update(ctx context.Context, sectionName string, params repository.UpdateParams) (domain.Section, error) {
	const op = "pageconfig.Update"

	if sectionName == "" {
		return domain.Section{}, apperr.Validation(op, "section name is required")
	}
	if err := validateJSONField("content", params.Content); err != nil {
		return domain.Section{}, apperr.Validation(op, err.Error())
	}
	if err := validateJSONField("seo_config", params.SEOConfig); err != nil {
		return domain.Section{}, apperr.Validation(op, err.Error())
	}
	if params.DisplayOrder != nil && *params.DisplayOrder < 0 {
		return domain.Section{}, apperr.Validation(op, "display order cannot be negative")
	}

	section, err := s.repo.UpdateBySection(ctx, sectionName, params)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Section{}, apperr.NotFound(op, "page section not found")
	}
	if err != nil {
		return domain.Section{}, apperr.Internal(op, "failed to update page section", err)
	}
	return section, nil
}

// SetVisibility shows or hides a section on the public page.
func (s *Service) SetVisibility(ctx context.Context, sectionName string, isActive bool) (domain.Section, error) {
	const op = "pageconfig.SetVisibility"

	section, err := s.repo.SetVisibility(ctx, sectionName, isActive)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Section{}, apperr.NotFound(op, "page section not found")
	}
	if err != nil {
		return domain.Section{}, apperr.Internal(op, "failed to toggle page section", err)
	}
	return section, nil
}

func validateJSONField(name string, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if !json.Valid(raw) {
		return fmt.Errorf("%s is not valid JSON", name)
	}
	return nil
}
