// Package pageconfig wires the B2B page section module.
package pageconfig

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "jobguinee_backend/internal/http"
	"jobguinee_backend/internal/pageconfig/handler"
	"jobguinee_backend/internal/pageconfig/repository"
	"jobguinee_backend/internal/pageconfig/service"
	"jobguinee_backend/platform/validator"
)

type Module struct {
	Service *service.Service
	handler *handler.Handler
}

func New(pool *pgxpool.Pool, val *validator.Validator, log *slog.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		Service: svc,
		handler: handler.New(svc, val),
	}
}

func (m *Module) Name() string { return "pageconfig" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The public page reads its sections without auth.
	ctx.V1.GET("/b2b/page-config", m.handler.ListActive)

	admin := ctx.Admin.Group("/b2b/page-config")
	admin.GET("/all", m.handler.ListAll)
	admin.PUT("/:section", m.handler.Update)
	admin.PATCH("/:section/visibility", m.handler.SetVisibility)
}
