package validator

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	OrganizationName string `validate:"required,max=10"`
	ContactEmail     string `validate:"required,email"`
	Urgency          string `validate:"omitempty,oneof=immediate urgent normale planifie"`
	PositionsCount   int    `validate:"gte=1"`
}

func TestStructReturnsFieldErrors(t *testing.T) {
	val := New()

	err := val.Struct(sampleRequest{
		ContactEmail:   "not-an-email",
		Urgency:        "tomorrow",
		PositionsCount: 0,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if len(fe) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(fe), fe)
	}

	msg := err.Error()
	for _, want := range []string{
		"organizationName: is required",
		"contactEmail: must be a valid email address",
		"urgency: must be one of: immediate, urgent, normale, planifie",
		"positionsCount: must be at least 1",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestStructValidInput(t *testing.T) {
	val := New()

	err := val.Struct(sampleRequest{
		OrganizationName: "SOTELGUI",
		ContactEmail:     "contact@sotelgui.gn",
		Urgency:          "urgent",
		PositionsCount:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
