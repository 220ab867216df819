// Package quotes wires the quote builder module.
package quotes

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/quotes/handler"
	"jobguinee_backend/internal/quotes/repository"
	"jobguinee_backend/internal/quotes/service"
	"jobguinee_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

// New builds the quotes module. storage may be nil when MinIO is disabled.
func New(pool *pgxpool.Pool, pipeline service.PipelineForcer, storage service.PDFStorage, bus service.EventPublisher, val *validator.Validator, log *slog.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pipeline, storage, bus, log)
	return &Module{
		Service: svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "quotes" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	grp := ctx.Admin.Group("/b2b/quotes")
	grp.POST("", m.handler.Create)
	grp.POST("/calculate", m.handler.Calculate)
	grp.GET("", m.handler.List)
	grp.GET("/:id", m.handler.Get)
	grp.GET("/:id/pdf-url", m.handler.PDFURL)
	grp.PATCH("/:id/status", m.handler.UpdateStatus)
	grp.DELETE("/:id", m.handler.Delete)
}
