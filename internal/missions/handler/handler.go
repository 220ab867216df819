package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobguinee_backend/internal/missions/domain"
	"jobguinee_backend/internal/missions/repository"
	"jobguinee_backend/internal/missions/service"
	"jobguinee_backend/internal/missions/transport"
	"jobguinee_backend/platform/httpkit"
	"jobguinee_backend/platform/validator"
)

// Handler handles HTTP requests for missions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid mission id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create persists a mission and activates its pipeline entry.
// POST /api/v1/admin/b2b/missions
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mission, err := h.svc.Create(c.Request.Context(), req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToMissionResponse(mission))
}

// List retrieves missions with optional filters.
// GET /api/v1/admin/b2b/missions
func (h *Handler) List(c *gin.Context) {
	var req transport.ListMissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.ListParams{Limit: req.Limit, Offset: req.Offset}
	if req.PipelineID != "" {
		pipelineID, err := uuid.Parse(req.PipelineID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid pipeline id", nil)
			return
		}
		params.PipelineID = &pipelineID
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !domain.IsKnownStatus(status) {
			httpkit.Error(c, http.StatusBadRequest, "unknown mission status", req.Status)
			return
		}
		params.Status = &status
	}

	missions, total, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListMissionsResponse(missions, total))
}

// Get retrieves a single mission.
// GET /api/v1/admin/b2b/missions/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	mission, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMissionResponse(mission))
}

// UpdateStatus moves a mission to a new status.
// PATCH /api/v1/admin/b2b/missions/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	mission, err := h.svc.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMissionResponse(mission))
}
