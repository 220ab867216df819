// Package pipeline wires the B2B sales pipeline module.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobguinee_backend/internal/events"
	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/pipeline/handler"
	"jobguinee_backend/internal/pipeline/repository"
	"jobguinee_backend/internal/pipeline/service"
	"jobguinee_backend/platform/validator"
)

type Module struct {
	Service    *service.Service
	Stats      *service.StatsService
	Repository *repository.Repository
	handler    *handler.Handler
}

// statsInvalidator is satisfied by caches that can drop the aggregate early.
type statsInvalidator interface {
	Invalidate(ctx context.Context) error
}

// New builds the pipeline module. cache and scheduler may be nil; the
// dashboard then always recomputes and follow-up reminders are skipped.
func New(pool *pgxpool.Pool, bus events.Bus, cache service.StatsCache, scheduler service.FollowUpScheduler, val *validator.Validator, log *slog.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, scheduler, log)
	stats := service.NewStatsService(repo, cache, log)

	// Admin status changes drop the cached dashboard aggregate; forced
	// transitions from quote/mission creation ride out the TTL instead.
	if inv, ok := cache.(statsInvalidator); ok {
		bus.Subscribe(events.PipelineStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, _ events.Event) error {
			return inv.Invalidate(ctx)
		}))
	}

	return &Module{
		Service:    svc,
		Stats:      stats,
		Repository: repo,
		handler:    handler.New(svc, stats, val),
	}
}

func (m *Module) Name() string { return "pipeline" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	grp := ctx.Admin.Group("/b2b/pipeline")
	grp.GET("", m.handler.List)
	grp.GET("/statistics", m.handler.Statistics)
	grp.GET("/:id", m.handler.Get)
	grp.PATCH("/:id", m.handler.Update)
	grp.PATCH("/:id/status", m.handler.Transition)
	grp.PATCH("/:id/assign", m.handler.Assign)
}
