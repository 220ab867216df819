package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobguinee_backend/internal/pageconfig/service"
	"jobguinee_backend/internal/pageconfig/transport"
	"jobguinee_backend/platform/httpkit"
	"jobguinee_backend/platform/validator"
)

// Handler handles HTTP requests for B2B page sections.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListActive returns the visible sections for the public page.
// GET /api/v1/b2b/page-config
func (h *Handler) ListActive(c *gin.Context) {
	sections, err := h.svc.ListActive(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListSectionsResponse(sections))
}

// ListAll returns every section, including hidden ones.
// GET /api/v1/admin/b2b/page-config/all
func (h *Handler) ListAll(c *gin.Context) {
	sections, err := h.svc.ListAll(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListSectionsResponse(sections))
}

// Update applies a partial update to one section.
// PUT /api/v1/admin/b2b/page-config/:section
func (h *Handler) Update(c *gin.Context) {
	var req transport.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	section, err := h.svc.Update(c.Request.Context(), c.Param("section"), req.ToParams())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSectionResponse(section))
}

// SetVisibility shows or hides one section.
// PATCH /api/v1/admin/b2b/page-config/:section/visibility
func (h *Handler) SetVisibility(c *gin.Context) {
	var req transport.VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	section, err := h.svc.SetVisibility(c.Request.Context(), c.Param("section"), *req.IsActive)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToSectionResponse(section))
}
