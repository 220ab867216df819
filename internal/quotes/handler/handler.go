package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"jobguinee_backend/internal/quotes/domain"
	"jobguinee_backend/internal/quotes/repository"
	"jobguinee_backend/internal/quotes/service"
	"jobguinee_backend/internal/quotes/transport"
	"jobguinee_backend/platform/httpkit"
	"jobguinee_backend/platform/validator"
)

// Handler handles HTTP requests for quotes.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid quote id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create persists a quote; totals are always recomputed server-side.
// POST /api/v1/admin/b2b/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}
	createdBy := identity.UserID

	quote, err := h.svc.Create(c.Request.Context(), req.ToParams(&createdBy))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToQuoteResponse(quote, time.Now()))
}

// Calculate previews totals without persisting.
// POST /api/v1/admin/b2b/quotes/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	totals, err := h.svc.Calculate(c.Request.Context(), req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTotalsResponse(totals))
}

// List retrieves quotes with optional filters.
// GET /api/v1/admin/b2b/quotes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListQuotesRequest
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
			httpkit.Error(c, http.StatusBadRequest, "unknown quote status", req.Status)
			return
		}
		params.Status = &status
	}

	quotes, total, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListQuotesResponse(quotes, total, time.Now()))
}

// Get retrieves a single quote with its items.
// GET /api/v1/admin/b2b/quotes/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	quote, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(quote, time.Now()))
}

// UpdateStatus moves a quote to a new status.
// PATCH /api/v1/admin/b2b/quotes/:id/status
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

	quote, err := h.svc.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToQuoteResponse(quote, time.Now()))
}

// Delete removes a quote and its items.
// DELETE /api/v1/admin/b2b/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// PDFURL returns a presigned download link for the quote's PDF rendition.
// GET /api/v1/admin/b2b/quotes/:id/pdf-url
func (h *Handler) PDFURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	url, err := h.svc.PDFURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.PDFURLResponse{URL: url})
}
