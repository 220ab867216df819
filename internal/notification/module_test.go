package notification

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/notification/sse"
	"jobguinee_backend/platform/logger"
)

type recordingNotifier struct {
	seen []string
	fail bool
}

func (r *recordingNotifier) Notify(_ context.Context, event events.Event) error {
	r.seen = append(r.seen, event.EventName())
	if r.fail {
		return errors.New("boom")
	}
	return nil
}

func newTestModule(t *testing.T, extra Notifier) (*events.InMemoryBus, *Module) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.New("test"))
	hub := sse.NewHub(slog.Default())
	return bus, New(bus, hub, extra, slog.Default())
}

func TestSubscribedEventsReachNotifier(t *testing.T) {
	rec := &recordingNotifier{}
	bus, _ := newTestModule(t, rec)

	leadID := uuid.New()
	if err := bus.PublishSync(context.Background(), events.LeadCreated{
		BaseEvent:        events.NewBaseEvent(),
		LeadID:           leadID,
		OrganizationName: "Clinique Pasteur",
	}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if err := bus.PublishSync(context.Background(), events.MissionCreated{
		BaseEvent:     events.NewBaseEvent(),
		MissionID:     uuid.New(),
		MissionNumber: "MIS-2026-0001",
	}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	want := []string{"b2b.lead.created", "b2b.mission.created"}
	if len(rec.seen) != len(want) {
		t.Fatalf("seen = %v, want %v", rec.seen, want)
	}
	for i := range want {
		if rec.seen[i] != want[i] {
			t.Errorf("seen[%d] = %s, want %s", i, rec.seen[i], want[i])
		}
	}
}

func TestUnsubscribedEventsAreIgnored(t *testing.T) {
	rec := &recordingNotifier{}
	bus, _ := newTestModule(t, rec)

	if err := bus.PublishSync(context.Background(), events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
	}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(rec.seen) != 0 {
		t.Errorf("seen = %v, want none", rec.seen)
	}
}

func TestFailingNotifierDoesNotStopOthers(t *testing.T) {
	failing := &recordingNotifier{fail: true}
	bus := events.NewInMemoryBus(logger.New("test"))
	hub := sse.NewHub(slog.Default())
	m := New(bus, hub, failing, slog.Default())

	ok := &recordingNotifier{}
	m.notifiers = append(m.notifiers, ok)

	err := bus.PublishSync(context.Background(), events.QuoteCreated{
		BaseEvent:   events.NewBaseEvent(),
		QuoteID:     uuid.New(),
		QuoteNumber: "DV-2026-0001",
	})
	if err == nil {
		t.Fatal("expected the failing notifier's error to surface")
	}
	if len(ok.seen) != 1 {
		t.Errorf("later notifier saw %d events, want 1", len(ok.seen))
	}
}

type recordingSender struct {
	leadAlerts    []string
	followUps     []string
	quoteNumbers  []string
	missionAlerts []string
}

func (r *recordingSender) SendLeadAlertEmail(_ context.Context, _, organizationName, _, _, _ string) error {
	r.leadAlerts = append(r.leadAlerts, organizationName)
	return nil
}

func (r *recordingSender) SendFollowUpReminderEmail(_ context.Context, _, organizationName, _ string) error {
	r.followUps = append(r.followUps, organizationName)
	return nil
}

func (r *recordingSender) SendQuoteCreatedEmail(_ context.Context, _, quoteNumber, _ string, _ int64) error {
	r.quoteNumbers = append(r.quoteNumbers, quoteNumber)
	return nil
}

func (r *recordingSender) SendMissionCreatedEmail(_ context.Context, _, missionNumber, _ string) error {
	r.missionAlerts = append(r.missionAlerts, missionNumber)
	return nil
}

func TestEmailNotifierRoutesEvents(t *testing.T) {
	sender := &recordingSender{}
	n := NewEmailNotifier(sender, "sales@jobguinee.com")

	ctx := context.Background()
	if err := n.Notify(ctx, events.LeadCreated{OrganizationName: "SMB"}); err != nil {
		t.Fatalf("Notify lead: %v", err)
	}
	if err := n.Notify(ctx, events.QuoteCreated{QuoteNumber: "DV-2026-0007"}); err != nil {
		t.Fatalf("Notify quote: %v", err)
	}
	// Status churn does not email anyone.
	if err := n.Notify(ctx, events.PipelineStatusChanged{EntryID: uuid.New()}); err != nil {
		t.Fatalf("Notify status: %v", err)
	}

	if len(sender.leadAlerts) != 1 || sender.leadAlerts[0] != "SMB" {
		t.Errorf("lead alerts = %v", sender.leadAlerts)
	}
	if len(sender.quoteNumbers) != 1 || sender.quoteNumbers[0] != "DV-2026-0007" {
		t.Errorf("quote emails = %v", sender.quoteNumbers)
	}
	if len(sender.followUps)+len(sender.missionAlerts) != 0 {
		t.Errorf("unexpected emails: %v %v", sender.followUps, sender.missionAlerts)
	}
}

func TestEmailNotifierWithoutInboxIsSilent(t *testing.T) {
	sender := &recordingSender{}
	n := NewEmailNotifier(sender, "")
	if err := n.Notify(context.Background(), events.LeadCreated{OrganizationName: "SMB"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.leadAlerts) != 0 {
		t.Errorf("lead alerts = %v, want none", sender.leadAlerts)
	}
}
