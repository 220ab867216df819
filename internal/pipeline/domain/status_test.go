package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"new lead to contacted", StatusNewLead, StatusContacted, true},
		{"new lead skips to qualified", StatusNewLead, StatusQualified, true},
		{"contacted to qualified", StatusContacted, StatusQualified, true},
		{"qualified to quote sent", StatusQualified, StatusQuoteSent, true},
		{"quote sent to negotiation", StatusQuoteSent, StatusNegotiation, true},
		{"negotiation back to quote sent", StatusNegotiation, StatusQuoteSent, true},
		{"negotiation to won", StatusNegotiation, StatusWon, true},
		{"won to mission active", StatusWon, StatusMissionActive, true},
		{"mission active to completed", StatusMissionActive, StatusMissionCompleted, true},
		{"completed to invoiced", StatusMissionCompleted, StatusInvoiced, true},
		{"invoiced to paid", StatusInvoiced, StatusPaid, true},
		{"lost reopened as new lead", StatusLost, StatusNewLead, true},
		{"lost reopened as contacted", StatusLost, StatusContacted, true},
		{"paid is terminal", StatusPaid, StatusNewLead, false},
		{"no backwards from won", StatusWon, StatusNegotiation, false},
		{"no skip to paid", StatusNewLead, StatusPaid, false},
		{"self transition rejected", StatusContacted, StatusContacted, false},
		{"unknown from", Status("bogus"), StatusContacted, false},
		{"unknown to", StatusContacted, Status("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusPaid) {
		t.Error("paid should be terminal")
	}
	if IsTerminal(StatusLost) {
		t.Error("lost is reopenable and should not be terminal")
	}
}

func TestMilestonesStampOnce(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(48 * time.Hour)
	t3 := t2.Add(48 * time.Hour)

	e := &Entry{Status: StatusNewLead}
	ApplyTransitionEffects(e, StatusContacted, nil, t1)
	if e.ContactedAt == nil || !e.ContactedAt.Equal(t1) {
		t.Fatalf("contacted_at = %v, want %v", e.ContactedAt, t1)
	}

	// Reopen the deal through lost and reach contacted a second time.
	ApplyTransitionEffects(e, StatusLost, nil, t2)
	ApplyTransitionEffects(e, StatusContacted, nil, t3)
	if !e.ContactedAt.Equal(t1) {
		t.Errorf("contacted_at = %v after revisit, first stamp %v must survive", e.ContactedAt, t1)
	}
	if e.LostAt == nil || !e.LostAt.Equal(t2) {
		t.Errorf("lost_at = %v, want %v", e.LostAt, t2)
	}
	if e.Status != StatusContacted {
		t.Errorf("status = %s, want contacted", e.Status)
	}
}

func TestTransitionNoteRouting(t *testing.T) {
	now := time.Now()
	note := func(s string) *string { return &s }

	e := &Entry{Status: StatusNewLead}
	ApplyTransitionEffects(e, StatusContacted, note("appel du 12/08"), now)
	if e.Notes == nil || *e.Notes != "appel du 12/08" {
		t.Fatalf("notes = %v, want the transition note", e.Notes)
	}
	if e.LostReason != nil {
		t.Fatal("non-lost transition must not touch lost_reason")
	}

	// A second note appends instead of replacing.
	ApplyTransitionEffects(e, StatusQualified, note("budget confirmé"), now)
	if *e.Notes != "appel du 12/08\nbudget confirmé" {
		t.Errorf("notes = %q, want both notes appended", *e.Notes)
	}

	// Losing the deal routes the note to lost_reason and leaves notes alone.
	ApplyTransitionEffects(e, StatusLost, note("budget gelé"), now)
	if e.LostReason == nil || *e.LostReason != "budget gelé" {
		t.Errorf("lost_reason = %v, want the losing note", e.LostReason)
	}
	if *e.Notes != "appel du 12/08\nbudget confirmé" {
		t.Errorf("notes = %q, lost transition must not touch internal notes", *e.Notes)
	}
}

func TestNormalizeSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want SourceType
	}{
		{"seo", SourceSEO},
		{"referral", SourceReferral},
		{"", SourceSEO},
		{"billboard", SourceOther},
	}
	for _, tt := range tests {
		if got := NormalizeSourceType(tt.in); got != tt.want {
			t.Errorf("NormalizeSourceType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewEntryDefaults(t *testing.T) {
	leadID := uuid.New()
	e := NewEntry(&leadID, Acquisition{SourceType: "direct"}, nil)

	if e.Status != StatusNewLead {
		t.Errorf("status = %s, want %s", e.Status, StatusNewLead)
	}
	if e.Score != 50 {
		t.Errorf("score = %d, want 50", e.Score)
	}
	if e.Probability != 30 {
		t.Errorf("probability = %d, want 30", e.Probability)
	}
	if e.Priority != PriorityNormal {
		t.Errorf("priority = %s, want %s", e.Priority, PriorityNormal)
	}
	if e.SourceType != SourceDirect {
		t.Errorf("source type = %s, want %s", e.SourceType, SourceDirect)
	}
}

func TestReduceStatistics(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	val := func(v int64) *int64 { return &v }

	rows := []StatsRow{
		{Status: StatusNewLead, SourceType: SourceSEO, EstimatedValue: val(10_000_000), CreatedAt: now.AddDate(0, 0, -2)},
		{Status: StatusWon, SourceType: SourceSEO, EstimatedValue: val(30_000_000), CreatedAt: now.AddDate(0, -2, 0)},
		{Status: StatusMissionActive, SourceType: SourceReferral, CreatedAt: now.AddDate(0, 0, -1)},
		{Status: StatusLost, SourceType: SourceDirect, EstimatedValue: val(5_000_000), CreatedAt: now.AddDate(0, -1, 0)},
	}

	stats := ReduceStatistics(rows, now)

	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.ByStatus[StatusWon] != 1 || stats.ByStatus[StatusNewLead] != 1 {
		t.Errorf("by_status = %v", stats.ByStatus)
	}
	if stats.BySource[SourceSEO] != 2 {
		t.Errorf("by_source[seo] = %d, want 2", stats.BySource[SourceSEO])
	}
	if stats.TotalEstimatedGNF != 45_000_000 {
		t.Errorf("total estimated = %d, want 45000000", stats.TotalEstimatedGNF)
	}
	// 45M over all 4 entries; the value-less entry counts in the denominator.
	if stats.AvgEstimatedGNF != 11_250_000 {
		t.Errorf("avg estimated = %d, want 11250000", stats.AvgEstimatedGNF)
	}
	if stats.CreatedThisMonth != 2 {
		t.Errorf("created this month = %d, want 2", stats.CreatedThisMonth)
	}
	if stats.WonCount != 2 {
		t.Errorf("won count = %d, want 2 (won + mission_active)", stats.WonCount)
	}
	if stats.ConversionRatePct != 50 {
		t.Errorf("conversion rate = %v, want 50", stats.ConversionRatePct)
	}
}

func TestReduceStatisticsEmpty(t *testing.T) {
	stats := ReduceStatistics(nil, time.Now())
	if stats.ConversionRatePct != 0 {
		t.Errorf("conversion rate on empty set = %v, want 0", stats.ConversionRatePct)
	}
	if stats.AvgEstimatedGNF != 0 {
		t.Errorf("avg on empty set = %d, want 0", stats.AvgEstimatedGNF)
	}
}
