// Package domain holds the mission model and its lifecycle rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is a mission's delivery status, independent from the pipeline
// status of the deal that produced it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusArchived  Status = "archived"
)

// Type is the service being delivered.
type Type string

const (
	TypeExternalisation Type = "externalisation_recrutement"
	TypeCVThequeAccess  Type = "cvtheque_access"
	TypeFormation       Type = "formation"
	TypeConseilRH       Type = "conseil_rh"
	TypePackEnterprise  Type = "pack_enterprise"
	TypeAutre           Type = "autre"
)

// Mission is a contracted engagement created from a won deal.
type Mission struct {
	ID                 uuid.UUID
	PipelineID         *uuid.UUID
	QuoteID            *uuid.UUID
	LeadID             *uuid.UUID
	MissionNumber      string
	Name               string
	Type               Type
	ClientCompany      string
	ClientContactName  string
	ClientContactEmail string
	ClientContactPhone *string
	JobTitle           *string
	JobDescription     *string
	PositionsCount     int
	Status             Status
	ContractValue      *int64
	StartDate          *time.Time
	ExpectedEndDate    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

var knownStatuses = map[Status]struct{}{
	StatusPending:   {},
	StatusActive:    {},
	StatusPaused:    {},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusArchived:  {},
}

func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// statusTransitions whitelists mission status changes. Completed and
// cancelled missions can only be archived; archived is terminal.
var statusTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusActive: true, StatusCancelled: true},
	StatusActive:    {StatusPaused: true, StatusCompleted: true, StatusCancelled: true},
	StatusPaused:    {StatusActive: true, StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {StatusArchived: true},
	StatusCancelled: {StatusArchived: true},
	StatusArchived:  {},
}

func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	return statusTransitions[from][to]
}

func IsKnownType(t Type) bool {
	switch t {
	case TypeExternalisation, TypeCVThequeAccess, TypeFormation, TypeConseilRH, TypePackEnterprise, TypeAutre:
		return true
	}
	return false
}
