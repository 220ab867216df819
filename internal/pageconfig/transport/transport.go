// Package transport defines the wire types for the page config API.
package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/pageconfig/domain"
	"jobguinee_backend/internal/pageconfig/repository"
)

// UpdateSectionRequest is the partial update body for PUT. Omitted fields
// keep their stored value.
type UpdateSectionRequest struct {
	IsActive     *bool           `json:"is_active"`
	Title        *string         `json:"title" validate:"omitempty,max=200"`
	Subtitle     *string         `json:"subtitle" validate:"omitempty,max=500"`
	Content      json.RawMessage `json:"content"`
	CTAText      *string         `json:"cta_text" validate:"omitempty,max=100"`
	CTALink      *string         `json:"cta_link" validate:"omitempty,max=500"`
	DisplayOrder *int            `json:"display_order" validate:"omitempty,min=0"`
	SEOConfig    json.RawMessage `json:"seo_config"`
}

func (r UpdateSectionRequest) ToParams() repository.UpdateParams {
	return repository.UpdateParams{
		IsActive:     r.IsActive,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Content:      r.Content,
		CTAText:      r.CTAText,
		CTALink:      r.CTALink,
		DisplayOrder: r.DisplayOrder,
		SEOConfig:    r.SEOConfig,
	}
}

// VisibilityRequest toggles a section on the public page.
type VisibilityRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type SectionResponse struct {
	ID           uuid.UUID       `json:"id"`
	SectionName  string          `json:"section_name"`
	IsActive     bool            `json:"is_active"`
	Title        *string         `json:"title,omitempty"`
	Subtitle     *string         `json:"subtitle,omitempty"`
	Content      json.RawMessage `json:"content,omitempty"`
	CTAText      *string         `json:"cta_text,omitempty"`
	CTALink      *string         `json:"cta_link,omitempty"`
	DisplayOrder int             `json:"display_order"`
	SEOConfig    json.RawMessage `json:"seo_config,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToSectionResponse(s domain.Section) SectionResponse {
	return SectionResponse{
		ID:           s.ID,
		SectionName:  s.SectionName,
		IsActive:     s.IsActive,
		Title:        s.Title,
		Subtitle:     s.Subtitle,
		Content:      s.Content,
		CTAText:      s.CTAText,
		CTALink:      s.CTALink,
		DisplayOrder: s.DisplayOrder,
		SEOConfig:    s.SEOConfig,
		UpdatedAt:    s.UpdatedAt,
	}
}

type ListSectionsResponse struct {
	Sections []SectionResponse `json:"sections"`
}

func ToListSectionsResponse(sections []domain.Section) ListSectionsResponse {
	out := ListSectionsResponse{Sections: make([]SectionResponse, 0, len(sections))}
	for _, s := range sections {
		out.Sections = append(out.Sections, ToSectionResponse(s))
	}
	return out
}
