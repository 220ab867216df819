// Package notification fans domain events out to the sales team: email to
// the shared inbox and SSE pushes to connected admin dashboards.
package notification

import (
	"context"
	"fmt"

	"jobguinee_backend/internal/email"
	"jobguinee_backend/internal/events"
	"jobguinee_backend/internal/notification/sse"
)

// Notifier receives each domain event the module subscribes to. Events the
// implementation does not care about are ignored without error.
type Notifier interface {
	Notify(ctx context.Context, event events.Event) error
}

// NoopNotifier ignores everything. Used when notifications are disabled and
// as a stand-in in tests.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, events.Event) error { return nil }

// EmailNotifier mails the sales inbox about lead intake and document
// milestones. Status churn stays out of email; the dashboard covers it.
type EmailNotifier struct {
	sender     email.Sender
	salesInbox string
}

func NewEmailNotifier(sender email.Sender, salesInbox string) *EmailNotifier {
	return &EmailNotifier{sender: sender, salesInbox: salesInbox}
}

func (n *EmailNotifier) Notify(ctx context.Context, event events.Event) error {
	if n.salesInbox == "" {
		return nil
	}

	switch e := event.(type) {
	case events.LeadCreated:
		return n.sender.SendLeadAlertEmail(ctx, n.salesInbox, e.OrganizationName, e.ContactName, e.PrimaryNeed, e.Urgency)
	case events.PipelineFollowUpDue:
		org := e.OrganizationName
		if org == "" {
			org = fmt.Sprintf("entrée pipeline %s", e.EntryID)
		}
		return n.sender.SendFollowUpReminderEmail(ctx, n.salesInbox, org, e.FollowUpDate)
	case events.QuoteCreated:
		return n.sender.SendQuoteCreatedEmail(ctx, n.salesInbox, e.QuoteNumber, e.Title, e.TotalAmount)
	case events.MissionCreated:
		return n.sender.SendMissionCreatedEmail(ctx, n.salesInbox, e.MissionNumber, e.ClientCompany)
	}
	return nil
}

// SSENotifier pushes every subscribed event to connected dashboards.
type SSENotifier struct {
	hub *sse.Hub
}

func NewSSENotifier(hub *sse.Hub) *SSENotifier {
	return &SSENotifier{hub: hub}
}

func (n *SSENotifier) Notify(_ context.Context, event events.Event) error {
	n.hub.Broadcast(sse.Message{Event: event.EventName(), Data: event})
	return nil
}
