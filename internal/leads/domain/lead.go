// Package domain holds the B2B lead model and its lifecycle rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is a lead's lifecycle status. Values are French, matching what the
// admin UI displays.
type Status string

const (
	StatusNouveau  Status = "nouveau"
	StatusContacte Status = "contacte"
	StatusQualifie Status = "qualifie"
	StatusConverti Status = "converti"
	StatusPerdu    Status = "perdu"
)

// OrganizationType classifies the submitting organization.
type OrganizationType string

const (
	OrgEntreprise      OrganizationType = "entreprise"
	OrgInstitution     OrganizationType = "institution"
	OrgONG             OrganizationType = "ong"
	OrgCabinetRH       OrganizationType = "cabinet_rh"
	OrgCentreFormation OrganizationType = "centre_formation"
	OrgFormateur       OrganizationType = "formateur"
	OrgAutre           OrganizationType = "autre"
)

// PrimaryNeed is the service the organization is asking about.
type PrimaryNeed string

const (
	NeedExternalisation PrimaryNeed = "externalisation_recrutement"
	NeedATSDigital      PrimaryNeed = "ats_digital"
	NeedCVTheque        PrimaryNeed = "cvtheque"
	NeedFormation       PrimaryNeed = "formation"
	NeedConseilRH       PrimaryNeed = "conseil_rh"
	NeedPackEnterprise  PrimaryNeed = "pack_enterprise"
	NeedAutre           PrimaryNeed = "autre"
)

// Urgency is the self-reported timeline of the request.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyNormale   Urgency = "normale"
	UrgencyPlanifie  Urgency = "planifie"
)

// Lead is a B2B prospect captured from the public contact form.
type Lead struct {
	ID               uuid.UUID
	OrganizationName string
	OrganizationType OrganizationType
	Sector           string
	PrimaryNeed      PrimaryNeed
	Urgency          Urgency
	ContactName      string
	ContactEmail     string
	ContactPhone     *string
	Message          *string
	Status           Status
	AssignedTo       *uuid.UUID
	Notes            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

var knownStatuses = map[Status]struct{}{
	StatusNouveau:  {},
	StatusContacte: {},
	StatusQualifie: {},
	StatusConverti: {},
	StatusPerdu:    {},
}

func IsKnownStatus(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// statusTransitions is the whitelist for admin-driven lead status changes.
// The chain is strictly forward; perdu is reachable from any non-terminal
// status. Conversion and loss are final.
var statusTransitions = map[Status]map[Status]bool{
	StatusNouveau:  {StatusContacte: true, StatusPerdu: true},
	StatusContacte: {StatusQualifie: true, StatusPerdu: true},
	StatusQualifie: {StatusConverti: true, StatusPerdu: true},
	StatusConverti: {},
	StatusPerdu:    {},
}

// CanTransition reports whether a lead status change is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	return statusTransitions[from][to]
}

func IsKnownOrganizationType(t OrganizationType) bool {
	switch t {
	case OrgEntreprise, OrgInstitution, OrgONG, OrgCabinetRH, OrgCentreFormation, OrgFormateur, OrgAutre:
		return true
	}
	return false
}

func IsKnownPrimaryNeed(n PrimaryNeed) bool {
	switch n {
	case NeedExternalisation, NeedATSDigital, NeedCVTheque, NeedFormation, NeedConseilRH, NeedPackEnterprise, NeedAutre:
		return true
	}
	return false
}

func IsKnownUrgency(u Urgency) bool {
	switch u {
	case UrgencyImmediate, UrgencyUrgent, UrgencyNormale, UrgencyPlanifie:
		return true
	}
	return false
}
