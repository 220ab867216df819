// Package leads wires the B2B lead intake module.
package leads

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/leads/handler"
	"jobguinee_backend/internal/leads/repository"
	"jobguinee_backend/internal/leads/service"
	"jobguinee_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, pipeline service.PipelineCreator, bus service.EventPublisher, val *validator.Validator, log *slog.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pipeline, bus, log)
	return &Module{
		Service: svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "leads" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public intake endpoint, behind the stricter per-IP limiter.
	public := ctx.V1.Group("/b2b/leads")
	if ctx.IntakeRateLimiter != nil {
		public.Use(ctx.IntakeRateLimiter.RateLimit())
	}
	public.POST("", m.handler.Submit)

	admin := ctx.Admin.Group("/b2b/leads")
	admin.GET("", m.handler.List)
	admin.GET("/:id", m.handler.Get)
	admin.PATCH("/:id/status", m.handler.UpdateStatus)
	admin.PATCH("/:id/assign", m.handler.Assign)
}
