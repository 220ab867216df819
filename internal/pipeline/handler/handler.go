package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobguinee_backend/internal/pipeline/domain"
	"jobguinee_backend/internal/pipeline/repository"
	"jobguinee_backend/internal/pipeline/service"
	"jobguinee_backend/internal/pipeline/transport"
	"jobguinee_backend/platform/httpkit"
	"jobguinee_backend/platform/validator"
)

// Handler handles HTTP requests for the sales pipeline.
type Handler struct {
	svc   *service.Service
	stats *service.StatsService
	val   *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid pipeline entry id"
)

func New(svc *service.Service, stats *service.StatsService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, stats: stats, val: val}
}

// List retrieves pipeline entries with optional filters.
// GET /api/v1/admin/b2b/pipeline
func (h *Handler) List(c *gin.Context) {
	var req transport.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.ListParams{Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !domain.IsKnown(status) {
			httpkit.Error(c, http.StatusBadRequest, "unknown pipeline status", req.Status)
			return
		}
		params.Status = &status
	}
	if req.SourceType != "" {
		source := domain.SourceType(req.SourceType)
		params.SourceType = &source
	}
	if req.AssignedTo != "" {
		userID, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid assigned_to id", nil)
			return
		}
		params.AssignedTo = &userID
	}

	entries, total, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListEntriesResponse(entries, total))
}

// Get retrieves a single pipeline entry.
// GET /api/v1/admin/b2b/pipeline/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToEntryResponse(entry))
}

// Update changes commercial fields on an entry.
// PATCH /api/v1/admin/b2b/pipeline/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var priority *domain.Priority
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		priority = &p
	}
	entry, err := h.svc.UpdateDetails(c.Request.Context(), id, service.UpdateDetailsParams{
		Score:              req.Score,
		Priority:           priority,
		EstimatedValue:     req.EstimatedValue,
		Probability:        req.Probability,
		Notes:              req.Notes,
		QualificationNotes: req.QualificationNotes,
		NextFollowUpDate:   req.NextFollowUpDate,
		ClearFollowUp:      req.ClearFollowUp,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToEntryResponse(entry))
}

// Transition moves an entry to a new status.
// PATCH /api/v1/admin/b2b/pipeline/:id/status
func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	entry, err := h.svc.Transition(c.Request.Context(), id, domain.Status(req.Status), req.Note)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToEntryResponse(entry))
}

// Assign sets or clears the entry's owner.
// PATCH /api/v1/admin/b2b/pipeline/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entry, err := h.svc.Assign(c.Request.Context(), id, req.AssignedTo)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToEntryResponse(entry))
}

// Statistics serves the dashboard aggregate.
// GET /api/v1/admin/b2b/pipeline/statistics
func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.stats.Statistics(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, stats)
}
