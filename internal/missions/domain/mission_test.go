package domain

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusArchived, false},
		{StatusActive, StatusPaused, true},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, true},
		{StatusPaused, StatusActive, true},
		{StatusPaused, StatusCompleted, true},
		{StatusCompleted, StatusArchived, true},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusArchived, true},
		{StatusArchived, StatusActive, false},
		{StatusActive, StatusActive, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsKnownType(t *testing.T) {
	for _, typ := range []Type{TypeExternalisation, TypeCVThequeAccess, TypeFormation, TypeConseilRH, TypePackEnterprise, TypeAutre} {
		if !IsKnownType(typ) {
			t.Errorf("IsKnownType(%s) = false", typ)
		}
	}
	if IsKnownType("audit") {
		t.Error("IsKnownType(audit) = true")
	}
}
