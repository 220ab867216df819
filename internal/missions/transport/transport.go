// Package transport defines the HTTP DTOs for the missions module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/missions/domain"
	"jobguinee_backend/internal/missions/service"
)

type CreateMissionRequest struct {
	PipelineID         *uuid.UUID `json:"pipeline_id"`
	QuoteID            *uuid.UUID `json:"quote_id"`
	LeadID             *uuid.UUID `json:"lead_id"`
	Name               string     `json:"name" validate:"required,min=2,max=200"`
	Type               string     `json:"mission_type" validate:"required,oneof=externalisation_recrutement cvtheque_access formation conseil_rh pack_enterprise autre"`
	ClientCompany      string     `json:"client_company" validate:"required,min=2,max=200"`
	ClientContactName  string     `json:"client_contact_name" validate:"required,min=2,max=120"`
	ClientContactEmail string     `json:"client_contact_email" validate:"required,email,max=254"`
	ClientContactPhone *string    `json:"client_contact_phone" validate:"omitempty,max=30"`
	JobTitle           *string    `json:"job_title" validate:"omitempty,max=200"`
	JobDescription     *string    `json:"job_description" validate:"omitempty,max=10000"`
	PositionsCount     int        `json:"positions_count" validate:"omitempty,min=0,max=1000"`
	ContractValue      *int64     `json:"contract_value" validate:"omitempty,min=0"`
	StartDate          *time.Time `json:"start_date"`
	ExpectedEndDate    *time.Time `json:"expected_end_date"`
}

type ListMissionsRequest struct {
	PipelineID string `form:"pipeline_id"`
	Status     string `form:"status"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type MissionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	PipelineID         *uuid.UUID `json:"pipeline_id"`
	QuoteID            *uuid.UUID `json:"quote_id"`
	LeadID             *uuid.UUID `json:"lead_id"`
	MissionNumber      string     `json:"mission_number"`
	Name               string     `json:"name"`
	Type               string     `json:"mission_type"`
	ClientCompany      string     `json:"client_company"`
	ClientContactName  string     `json:"client_contact_name"`
	ClientContactEmail string     `json:"client_contact_email"`
	ClientContactPhone *string    `json:"client_contact_phone"`
	JobTitle           *string    `json:"job_title"`
	JobDescription     *string    `json:"job_description"`
	PositionsCount     int        `json:"positions_count"`
	Status             string     `json:"status"`
	ContractValue      *int64     `json:"contract_value"`
	StartDate          *time.Time `json:"start_date"`
	ExpectedEndDate    *time.Time `json:"expected_end_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ListMissionsResponse struct {
	Items []MissionResponse `json:"items"`
	Total int               `json:"total"`
}

func (r CreateMissionRequest) ToParams() service.CreateParams {
	return service.CreateParams{
		PipelineID:         r.PipelineID,
		QuoteID:            r.QuoteID,
		LeadID:             r.LeadID,
		Name:               r.Name,
		Type:               domain.Type(r.Type),
		ClientCompany:      r.ClientCompany,
		ClientContactName:  r.ClientContactName,
		ClientContactEmail: r.ClientContactEmail,
		ClientContactPhone: r.ClientContactPhone,
		JobTitle:           r.JobTitle,
		JobDescription:     r.JobDescription,
		PositionsCount:     r.PositionsCount,
		ContractValue:      r.ContractValue,
		StartDate:          r.StartDate,
		ExpectedEndDate:    r.ExpectedEndDate,
	}
}

func ToMissionResponse(m domain.Mission) MissionResponse {
	return MissionResponse{
		ID:                 m.ID,
		PipelineID:         m.PipelineID,
		QuoteID:            m.QuoteID,
		LeadID:             m.LeadID,
		MissionNumber:      m.MissionNumber,
		Name:               m.Name,
		Type:               string(m.Type),
		ClientCompany:      m.ClientCompany,
		ClientContactName:  m.ClientContactName,
		ClientContactEmail: m.ClientContactEmail,
		ClientContactPhone: m.ClientContactPhone,
		JobTitle:           m.JobTitle,
		JobDescription:     m.JobDescription,
		PositionsCount:     m.PositionsCount,
		Status:             string(m.Status),
		ContractValue:      m.ContractValue,
		StartDate:          m.StartDate,
		ExpectedEndDate:    m.ExpectedEndDate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToListMissionsResponse(missions []domain.Mission, total int) ListMissionsResponse {
	items := make([]MissionResponse, 0, len(missions))
	for _, m := range missions {
		items = append(items, ToMissionResponse(m))
	}
	return ListMissionsResponse{Items: items, Total: total}
}
