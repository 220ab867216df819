// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"jobguinee_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new B2B lead is submitted.
type LeadCreated struct {
	BaseEvent
	LeadID           uuid.UUID  `json:"leadId"`
	PipelineID       *uuid.UUID `json:"pipelineId,omitempty"`
	OrganizationName string     `json:"organizationName"`
	OrganizationType string     `json:"organizationType"`
	PrimaryNeed      string     `json:"primaryNeed"`
	Urgency          string     `json:"urgency"`
	ContactName      string     `json:"contactName"`
	ContactEmail     string     `json:"contactEmail"`
}

func (e LeadCreated) EventName() string { return "b2b.lead.created" }

// LeadStatusChanged is published when a lead's lifecycle status is updated.
type LeadStatusChanged struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ActorID    uuid.UUID `json:"actorId"`
}

func (e LeadStatusChanged) EventName() string { return "b2b.lead.status_changed" }

// =============================================================================
// Pipeline Domain Events
// =============================================================================

// PipelineEntryCreated is published when a lead enters the sales pipeline.
type PipelineEntryCreated struct {
	BaseEvent
	EntryID    uuid.UUID  `json:"entryId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	SourceType string     `json:"sourceType"`
	SourcePage string     `json:"sourcePage,omitempty"`
}

func (e PipelineEntryCreated) EventName() string { return "b2b.pipeline.entry_created" }

// PipelineStatusChanged is published on every pipeline status transition.
type PipelineStatusChanged struct {
	BaseEvent
	EntryID    uuid.UUID  `json:"entryId"`
	LeadID     *uuid.UUID `json:"leadId,omitempty"`
	FromStatus string     `json:"fromStatus"`
	ToStatus   string     `json:"toStatus"`
	Forced     bool       `json:"forced"`
}

func (e PipelineStatusChanged) EventName() string { return "b2b.pipeline.status_changed" }

// PipelineFollowUpDue is published by the scheduler worker when an entry's
// follow-up date is reached.
type PipelineFollowUpDue struct {
	BaseEvent
	EntryID          uuid.UUID  `json:"entryId"`
	AssignedTo       *uuid.UUID `json:"assignedTo,omitempty"`
	OrganizationName string     `json:"organizationName,omitempty"`
	FollowUpDate     string     `json:"followUpDate,omitempty"`
}

func (e PipelineFollowUpDue) EventName() string { return "b2b.pipeline.follow_up_due" }

// =============================================================================
// Quotes Domain Events
// =============================================================================

// QuoteCreated is published when a quote is persisted.
type QuoteCreated struct {
	BaseEvent
	QuoteID     uuid.UUID  `json:"quoteId"`
	PipelineID  *uuid.UUID `json:"pipelineId,omitempty"`
	LeadID      *uuid.UUID `json:"leadId,omitempty"`
	QuoteNumber string     `json:"quoteNumber"`
	Title       string     `json:"title"`
	TotalAmount int64      `json:"totalAmount"`
	Currency    string     `json:"currency"`
}

func (e QuoteCreated) EventName() string { return "b2b.quote.created" }

// QuoteStatusChanged is published when a quote's status is updated.
type QuoteStatusChanged struct {
	BaseEvent
	QuoteID     uuid.UUID `json:"quoteId"`
	QuoteNumber string    `json:"quoteNumber"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
}

func (e QuoteStatusChanged) EventName() string { return "b2b.quote.status_changed" }

// =============================================================================
// Missions Domain Events
// =============================================================================

// MissionCreated is published when a mission record is persisted.
type MissionCreated struct {
	BaseEvent
	MissionID     uuid.UUID  `json:"missionId"`
	PipelineID    *uuid.UUID `json:"pipelineId,omitempty"`
	QuoteID       *uuid.UUID `json:"quoteId,omitempty"`
	MissionNumber string     `json:"missionNumber"`
	MissionType   string     `json:"missionType"`
	ClientCompany string     `json:"clientCompany"`
}

func (e MissionCreated) EventName() string { return "b2b.mission.created" }

// MissionStatusChanged is published when a mission's status is updated.
type MissionStatusChanged struct {
	BaseEvent
	MissionID  uuid.UUID `json:"missionId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
}

func (e MissionStatusChanged) EventName() string { return "b2b.mission.status_changed" }
