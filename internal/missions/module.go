// Package missions wires the mission record module.
package missions

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/missions/handler"
	"jobguinee_backend/internal/missions/repository"
	"jobguinee_backend/internal/missions/service"
	"jobguinee_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, pipeline service.PipelineForcer, bus service.EventPublisher, val *validator.Validator, log *slog.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pipeline, bus, log)
	return &Module{
		Service: svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "missions" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	grp := ctx.Admin.Group("/b2b/missions")
	grp.POST("", m.handler.Create)
	grp.GET("", m.handler.List)
	grp.GET("/:id", m.handler.Get)
	grp.PATCH("/:id/status", m.handler.UpdateStatus)
}
