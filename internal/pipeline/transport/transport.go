// Package transport defines the HTTP DTOs for the pipeline module.
package transport

import (
	"time"

	"github.com/google/uuid"

	"jobguinee_backend/internal/pipeline/domain"
)

type ListEntriesRequest struct {
	Status     string `form:"status"`
	SourceType string `form:"source_type"`
	AssignedTo string `form:"assigned_to"`
	Limit      int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int    `form:"offset" validate:"omitempty,min=0"`
}

type UpdateEntryRequest struct {
	Score            *int       `json:"score" validate:"omitempty,min=0,max=100"`
	Priority         *string    `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	EstimatedValue   *int64     `json:"estimated_value" validate:"omitempty,min=0"`
	Probability      *int       `json:"probability" validate:"omitempty,min=0,max=100"`
	Notes              *string    `json:"internal_notes" validate:"omitempty,max=5000"`
	QualificationNotes *string    `json:"qualification_notes" validate:"omitempty,max=5000"`
	NextFollowUpDate   *time.Time `json:"next_follow_up_date"`
	ClearFollowUp      bool       `json:"clear_follow_up"`
}

type TransitionRequest struct {
	Status string  `json:"status" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=5000"`
}

type AssignRequest struct {
	// Null unassigns the entry.
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

type EntryResponse struct {
	ID                 uuid.UUID  `json:"id"`
	LeadID             *uuid.UUID `json:"lead_id"`
	Status             string     `json:"status"`
	Score              int        `json:"lead_score"`
	Priority           string     `json:"priority"`
	SourceType         string     `json:"source_type"`
	SourcePage         *string    `json:"source_page"`
	UTMSource          *string    `json:"utm_source"`
	UTMMedium          *string    `json:"utm_medium"`
	UTMCampaign        *string    `json:"utm_campaign"`
	EstimatedValue     *int64     `json:"estimated_value"`
	Probability        int        `json:"probability_percentage"`
	AssignedTo         *uuid.UUID `json:"assigned_to"`
	Notes              *string    `json:"internal_notes"`
	QualificationNotes *string    `json:"qualification_notes"`
	LostReason         *string    `json:"lost_reason"`
	NextFollowUpDate   *time.Time `json:"next_follow_up_date"`
	ContactedAt        *time.Time `json:"contacted_at"`
	QualifiedAt        *time.Time `json:"qualified_at"`
	QuoteSentAt        *time.Time `json:"quote_sent_at"`
	WonAt              *time.Time `json:"won_at"`
	LostAt             *time.Time `json:"lost_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ListEntriesResponse struct {
	Items []EntryResponse `json:"items"`
	Total int             `json:"total"`
}

func ToEntryResponse(e domain.Entry) EntryResponse {
	return EntryResponse{
		ID:                 e.ID,
		LeadID:             e.LeadID,
		Status:             string(e.Status),
		Score:              e.Score,
		Priority:           string(e.Priority),
		SourceType:         string(e.SourceType),
		SourcePage:         e.SourcePage,
		UTMSource:          e.UTMSource,
		UTMMedium:          e.UTMMedium,
		UTMCampaign:        e.UTMCampaign,
		EstimatedValue:     e.EstimatedValue,
		Probability:        e.Probability,
		AssignedTo:         e.AssignedTo,
		Notes:              e.Notes,
		QualificationNotes: e.QualificationNotes,
		LostReason:         e.LostReason,
		NextFollowUpDate:   e.NextFollowUpDate,
		ContactedAt:        e.ContactedAt,
		QualifiedAt:        e.QualifiedAt,
		QuoteSentAt:        e.QuoteSentAt,
		WonAt:              e.WonAt,
		LostAt:             e.LostAt,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func ToListEntriesResponse(entries []domain.Entry, total int) ListEntriesResponse {
	items := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, ToEntryResponse(e))
	}
	return ListEntriesResponse{Items: items, Total: total}
}
