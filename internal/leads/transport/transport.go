// Package transport defines the HTTP DTOs for the leads module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/leads/domain"
)

// SubmitLeadRequest is the public intake form payload. Any status field the
// caller sends is ignored; a new lead always starts at nouveau.
type SubmitLeadRequest struct {
	OrganizationName string  `json:"organization_name" validate:"required,min=2,max=200"`
	OrganizationType string  `json:"organization_type" validate:"required,oneof=entreprise institution ong cabinet_rh centre_formation formateur autre"`
	Sector           string  `json:"sector" validate:"required,min=2,max=120"`
	PrimaryNeed      string  `json:"primary_need" validate:"required,oneof=externalisation_recrutement ats_digital cvtheque formation conseil_rh pack_enterprise autre"`
	Urgency          string  `json:"urgency" validate:"required,oneof=immediate urgent normale planifie"`
	ContactName      string  `json:"contact_name" validate:"required,min=2,max=120"`
	ContactEmail     string  `json:"contact_email" validate:"required,email,max=254"`
	ContactPhone     *string `json:"contact_phone" validate:"omitempty,max=30"`
	Message          *string `json:"message" validate:"omitempty,max=5000"`
	EstimatedValue   *int64  `json:"estimated_value" validate:"omitempty,min=0"`

	// Acquisition metadata forwarded to the pipeline entry.
	SourcePage  *string `json:"source_page" validate:"omitempty,max=300"`
	SourceType  string  `json:"source_type" validate:"omitempty,max=40"`
	UTMSource   *string `json:"utm_source" validate:"omitempty,max=120"`
	UTMMedium   *string `json:"utm_medium" validate:"omitempty,max=120"`
	UTMCampaign *string `json:"utm_campaign" validate:"omitempty,max=120"`
}

type ListLeadsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}

type AssignRequest struct {
	// Null unassigns the lead.
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationName string     `json:"organization_name"`
	OrganizationType string     `json:"organization_type"`
	Sector           string     `json:"sector"`
	PrimaryNeed      string     `json:"primary_need"`
	Urgency          string     `json:"urgency"`
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	ContactPhone     *string    `json:"contact_phone"`
	Message          *string    `json:"message"`
	Status           string     `json:"status"`
	AssignedTo       *uuid.UUID `json:"assigned_to"`
	Notes            *string    `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ListLeadsResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}

func ToLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:               l.ID,
		OrganizationName: l.OrganizationName,
		OrganizationType: string(l.OrganizationType),
		Sector:           l.Sector,
		PrimaryNeed:      string(l.PrimaryNeed),
		Urgency:          string(l.Urgency),
		ContactName:      l.ContactName,
		ContactEmail:     l.ContactEmail,
		ContactPhone:     l.ContactPhone,
		Message:          l.Message,
		Status:           string(l.Status),
		AssignedTo:       l.AssignedTo,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func ToListLeadsResponse(leads []domain.Lead, total int) ListLeadsResponse {
	items := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		items = append(items, ToLeadResponse(l))
	}
	return ListLeadsResponse{Items: items, Total: total}
}
