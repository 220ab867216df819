package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a deal moving through the B2B pipeline. Entries are normally
// created together with a lead, but the lead reference stays nullable so an
// entry survives its lead being purged.
type Entry struct {
	ID                 uuid.UUID
	LeadID             *uuid.UUID
	Status             Status
	Score              int
	Priority           Priority
	SourceType         SourceType
	SourcePage         *string
	UTMSource          *string
	UTMMedium          *string
	UTMCampaign        *string
	EstimatedValue     *int64
	Probability        int
	AssignedTo         *uuid.UUID
	Notes              *string
	QualificationNotes *string
	LostReason         *string
	NextFollowUpDate   *time.Time
	ContactedAt        *time.Time
	QualifiedAt        *time.Time
	QuoteSentAt        *time.Time
	WonAt              *time.Time
	LostAt             *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Acquisition carries how the lead reached the platform. Stored verbatim.
type Acquisition struct {
	SourceType  string
	SourcePage  *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
}

// NewEntry builds a pipeline entry for a freshly captured lead with the
// baseline score and probability.
func NewEntry(leadID *uuid.UUID, acq Acquisition, estimatedValue *int64) Entry {
	return Entry{
		ID:             uuid.New(),
		LeadID:         leadID,
		Status:         StatusNewLead,
		Score:          InitialScore,
		Priority:       PriorityNormal,
		SourceType:     NormalizeSourceType(acq.SourceType),
		SourcePage:     acq.SourcePage,
		UTMSource:      acq.UTMSource,
		UTMMedium:      acq.UTMMedium,
		UTMCampaign:    acq.UTMCampaign,
		EstimatedValue: estimatedValue,
		Probability:    InitialProbability,
	}
}

// StatsRow is the slice of an entry the statistics reduction needs.
type StatsRow struct {
	Status         Status
	SourceType     SourceType
	EstimatedValue *int64
	CreatedAt      time.Time
}

// Statistics is the aggregate snapshot served to the admin dashboard.
// Monetary amounts are GNF minor units, like everywhere else.
type Statistics struct {
	Total             int                `json:"total"`
	ByStatus          map[Status]int     `json:"by_status"`
	BySource          map[SourceType]int `json:"by_source"`
	TotalEstimatedGNF int64              `json:"total_estimated_value"`
	AvgEstimatedGNF   int64              `json:"avg_estimated_value"`
	CreatedThisMonth  int                `json:"created_this_month"`
	WonCount          int                `json:"won_count"`
	ConversionRatePct float64            `json:"conversion_rate"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// ReduceStatistics folds entry rows into the dashboard aggregate. "now"
// anchors the current-month window; won-equivalent statuses (won,
// mission_active, mission_completed) all count as conversions. The average
// runs over all entries; ones without an estimated value count as zero.
func ReduceStatistics(rows []StatsRow, now time.Time) Statistics {
	stats := Statistics{
		ByStatus:    make(map[Status]int),
		BySource:    make(map[SourceType]int),
		GeneratedAt: now,
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, r := range rows {
		stats.Total++
		stats.ByStatus[r.Status]++
		stats.BySource[r.SourceType]++
		if r.EstimatedValue != nil {
			stats.TotalEstimatedGNF += *r.EstimatedValue
		}
		if !r.CreatedAt.Before(monthStart) {
			stats.CreatedThisMonth++
		}
		if IsWonEquivalent(r.Status) {
			stats.WonCount++
		}
	}
	if stats.Total > 0 {
		stats.AvgEstimatedGNF = stats.TotalEstimatedGNF / int64(stats.Total)
	}
	if stats.Total > 0 {
		stats.ConversionRatePct = 100 * float64(stats.WonCount) / float64(stats.Total)
	}
	return stats
}
