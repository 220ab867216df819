package notification

import (
	"context"
	"log/slog"

	"jobguinee_backend/internal/events"
	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/notification/sse"
)

// subscribedEvents are the bus topics the module fans out.
var subscribedEvents = []string{
	"b2b.lead.created",
	"b2b.pipeline.status_changed",
	"b2b.pipeline.follow_up_due",
	"b2b.quote.created",
	"b2b.mission.created",
}

// Module subscribes notifiers to the event bus and serves the SSE stream.
type Module struct {
	hub       *sse.Hub
	notifiers []Notifier
	logger    *slog.Logger
}

// New wires the notifiers and registers them on the bus. A nil emailNotifier
// is skipped; the SSE hub is always active.
func New(bus events.Bus, hub *sse.Hub, emailNotifier Notifier, log *slog.Logger) *Module {
	m := &Module{hub: hub, logger: log}
	m.notifiers = append(m.notifiers, NewSSENotifier(hub))
	if emailNotifier != nil {
		m.notifiers = append(m.notifiers, emailNotifier)
	}

	for _, name := range subscribedEvents {
		bus.Subscribe(name, events.HandlerFunc(m.dispatch))
	}
	return m
}

// dispatch fans one event out to every notifier. A failing notifier does not
// stop the others; the first error is reported back to the bus for logging.
func (m *Module) dispatch(ctx context.Context, event events.Event) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, event); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			m.logger.Error("notifier failed",
				slog.String("event", event.EventName()),
				slog.String("error", err.Error()))
		}
	}
	return firstErr
}

func (m *Module) Name() string { return "notification" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// EventSource cannot set headers; AuthRequired also reads ?token=.
	ctx.Admin.GET("/b2b/events/stream", m.hub.Handler)
}
