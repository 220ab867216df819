package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/events"
	leadsrepo "jobguinee_backend/internal/leads/repository"
	"jobguinee_backend/internal/pipeline/domain"
	pipelinerepo "jobguinee_backend/internal/pipeline/repository"
	"jobguinee_backend/platform/config"
	"jobguinee_backend/platform/logger"
)

// Worker consumes follow-up reminder tasks. A reminder only fires when the
// entry still exists, is not closed, and still carries the date it was
// scheduled for; everything else is a silent drop.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	pipeline *pipelinerepo.Repository
	leads    *leadsrepo.Repository
	bus      events.Bus
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		pipeline: pipelinerepo.New(pool),
		leads:    leadsrepo.New(pool),
		bus:      bus,
		log:      log,
	}

	mux.HandleFunc(TaskPipelineFollowUp, w.handlePipelineFollowUp)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// followUpMatches reports whether the stored follow-up date is the one this
// reminder was scheduled for. The payload carries whole seconds only, while
// timestamptz keeps microseconds, so both sides compare truncated.
func followUpMatches(stored *time.Time, scheduledFor time.Time) bool {
	if stored == nil {
		return false
	}
	return stored.UTC().Truncate(time.Second).Equal(scheduledFor.UTC().Truncate(time.Second))
}

func (w *Worker) handlePipelineFollowUp(ctx context.Context, task *asynq.Task) error {
	payload, err := ParsePipelineFollowUpPayload(task)
	if err != nil {
		return err
	}

	entryID, err := uuid.Parse(payload.EntryID)
	if err != nil {
		return err
	}

	scheduledFor, err := time.Parse(time.RFC3339, payload.FollowUpDate)
	if err != nil {
		return err
	}

	entry, err := w.pipeline.GetByID(ctx, entryID)
	if errors.Is(err, pipelinerepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if domain.IsTerminal(entry.Status) {
		return nil
	}

	// Rescheduled or cleared follow-ups make this reminder stale.
	if !followUpMatches(entry.NextFollowUpDate, scheduledFor) {
		return nil
	}

	organizationName := ""
	if entry.LeadID != nil {
		lead, err := w.leads.GetByID(ctx, *entry.LeadID)
		if err == nil {
			organizationName = lead.OrganizationName
		} else if !errors.Is(err, leadsrepo.ErrNotFound) {
			return err
		}
	}

	if w.bus == nil {
		return nil
	}

	w.bus.Publish(ctx, events.PipelineFollowUpDue{
		BaseEvent:        events.NewBaseEvent(),
		EntryID:          entry.ID,
		AssignedTo:       entry.AssignedTo,
		OrganizationName: organizationName,
		FollowUpDate:     scheduledFor.Format("2006-01-02"),
	})

	return nil
}
