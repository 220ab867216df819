// Package domain provides core business rules for the B2B sales pipeline.
package domain

import "time"

// Status is a pipeline entry's lifecycle status.
type Status string

const (
	StatusNewLead          Status = "new_lead"
	StatusContacted        Status = "contacted"
	StatusQualified        Status = "qualified"
	StatusQuoteSent        Status = "quote_sent"
	StatusNegotiation      Status = "negotiation"
	StatusWon              Status = "won"
	StatusLost             Status = "lost"
	StatusMissionActive    Status = "mission_active"
	StatusMissionCompleted Status = "mission_completed"
	StatusInvoiced         Status = "invoiced"
	StatusPaid             Status = "paid"
)

// Defaults applied by the entry factory. No scoring model exists yet; every
// new entry starts from the same baseline until an admin adjusts it.
const (
	InitialScore       = 50
	InitialProbability = 30
)

var knownStatuses = map[Status]struct{}{
	StatusNewLead:          {},
	StatusContacted:        {},
	StatusQualified:        {},
	StatusQuoteSent:        {},
	StatusNegotiation:      {},
	StatusWon:              {},
	StatusLost:             {},
	StatusMissionActive:    {},
	StatusMissionCompleted: {},
	StatusInvoiced:         {},
	StatusPaid:             {},
}

// transitions is the whitelist of legal (from, to) pairs for admin-driven
// status changes. A single corrective path leads out of "lost" so a
// mis-closed deal can be reopened. Forced transitions (quote sent, mission
// started) bypass this table; see CanForce.
var transitions = map[Status]map[Status]bool{
	StatusNewLead:          {StatusContacted: true, StatusQualified: true, StatusLost: true},
	StatusContacted:        {StatusQualified: true, StatusLost: true},
	StatusQualified:        {StatusQuoteSent: true, StatusNegotiation: true, StatusLost: true},
	StatusQuoteSent:        {StatusNegotiation: true, StatusWon: true, StatusLost: true},
	StatusNegotiation:      {StatusQuoteSent: true, StatusWon: true, StatusLost: true},
	StatusWon:              {StatusMissionActive: true},
	StatusLost:             {StatusNewLead: true, StatusContacted: true},
	StatusMissionActive:    {StatusMissionCompleted: true},
	StatusMissionCompleted: {StatusInvoiced: true},
	StatusInvoiced:         {StatusPaid: true},
	StatusPaid:             {},
}

// wonEquivalent statuses count toward the conversion rate.
var wonEquivalent = map[Status]bool{
	StatusWon:              true,
	StatusMissionActive:    true,
	StatusMissionCompleted: true,
}

// IsKnown reports whether the status is one of the eleven pipeline statuses.
func IsKnown(s Status) bool {
	_, ok := knownStatuses[s]
	return ok
}

// CanTransition reports whether an admin-driven transition from one status
// to another is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	next, ok := transitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// CanForce reports whether a side-effect transition (quote creation forcing
// quote_sent, mission creation forcing mission_active) may be applied from
// the current status. Re-forcing the current status is allowed and treated
// as a no-op by the caller, so repeated quote or mission creation on the
// same entry never fails.
func CanForce(from, to Status) bool {
	if !IsKnown(to) {
		return false
	}
	return true
}

// IsWonEquivalent reports whether the status counts as a won deal for
// statistics purposes.
func IsWonEquivalent(s Status) bool {
	return wonEquivalent[s]
}

// IsTerminal reports whether no further admin transitions exist from the status.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ApplyTransitionEffects mutates the entry the way a status change does:
// sets the status, routes the optional note (lost_reason when the deal is
// lost, appended to internal notes otherwise) and stamps the milestone
// timestamp. Milestones stamp exactly once; an entry revisiting a status
// keeps the first timestamp. The repository's transition UPDATE mirrors
// this function in SQL.
func ApplyTransitionEffects(e *Entry, to Status, note *string, at time.Time) {
	e.Status = to
	if note != nil && *note != "" {
		if to == StatusLost {
			e.LostReason = note
		} else {
			e.Notes = appendNote(e.Notes, *note)
		}
	}

	var milestone **time.Time
	switch to {
	case StatusContacted:
		milestone = &e.ContactedAt
	case StatusQualified:
		milestone = &e.QualifiedAt
	case StatusQuoteSent:
		milestone = &e.QuoteSentAt
	case StatusWon:
		milestone = &e.WonAt
	case StatusLost:
		milestone = &e.LostAt
	}
	if milestone != nil && *milestone == nil {
		stamp := at
		*milestone = &stamp
	}
	e.UpdatedAt = at
}

func appendNote(existing *string, note string) *string {
	if existing == nil || *existing == "" {
		return &note
	}
	combined := *existing + "\n" + note
	return &combined
}

// Priority is a pipeline entry's follow-up priority tier.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsKnownPriority reports whether the priority is a known tier.
func IsKnownPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SourceType classifies how a lead reached the platform.
type SourceType string

const (
	SourceSEO      SourceType = "seo"
	SourceDirect   SourceType = "direct"
	SourceReferral SourceType = "referral"
	SourcePaid     SourceType = "paid"
	SourceOther    SourceType = "other"
)

// NormalizeSourceType maps unknown or empty classifications to a usable value.
// Empty defaults to seo since landing pages are the dominant acquisition path.
func NormalizeSourceType(s string) SourceType {
	switch SourceType(s) {
	case SourceSEO, SourceDirect, SourceReferral, SourcePaid, SourceOther:
		return SourceType(s)
	}
	if s == "" {
		return SourceSEO
	}
	return SourceOther
}
