package scheduler

import (
	"testing"
	"time"
)

func TestFollowUpMatches(t *testing.T) {
	scheduled := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	stored := scheduled.Add(123456 * time.Microsecond)
	if !followUpMatches(&stored, scheduled) {
		t.Fatal("stored date with sub-second precision should still match")
	}

	local := scheduled.In(time.FixedZone("GMT", 0)).Add(500 * time.Millisecond)
	if !followUpMatches(&local, scheduled) {
		t.Fatal("zone and sub-second noise should not break the match")
	}

	rescheduled := scheduled.Add(24 * time.Hour)
	if followUpMatches(&rescheduled, scheduled) {
		t.Fatal("a rescheduled follow-up must make the reminder stale")
	}

	if followUpMatches(nil, scheduled) {
		t.Fatal("a cleared follow-up must make the reminder stale")
	}
}
