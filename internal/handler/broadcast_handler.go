package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/domain/broadcast"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// BroadcastHandler handles announcements to residents.
type BroadcastHandler struct {
	service *application.BroadcastService
}

// NewBroadcastHandler creates a new BroadcastHandler.
func NewBroadcastHandler(service *application.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{service: service}
}

// RegisterRoutes registers broadcast routes.
func (h *BroadcastHandler) RegisterRoutes(r *gin.RouterGroup) {
	broadcasts := r.Group("/api/v1/admin/broadcasts")
	{
		broadcasts.GET("", h.List)
		broadcasts.POST("", h.Create)
		broadcasts.POST("/schedule", h.Schedule)
		broadcasts.PUT("/:id", h.Update)
		broadcasts.DELETE("/:id", h.Delete)
		broadcasts.POST("/:id/resend", h.Resend)
	}
}

// List handles GET /api/v1/admin/broadcasts.
func (h *BroadcastHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// Create handles POST /api/v1/admin/broadcasts.
func (h *BroadcastHandler) Create(c *gin.Context) {
	d, ok := bindDraft(c)
	if !ok {
		return
	}

	b, err := h.service.Create(c.Request.Context(), d)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, b)
}

// Schedule handles POST /api/v1/admin/broadcasts/schedule.
func (h *BroadcastHandler) Schedule(c *gin.Context) {
	d, ok := bindDraft(c)
	if !ok {
		return
	}

	b, err := h.service.Schedule(c.Request.Context(), d)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, b)
}

// Update handles PUT /api/v1/admin/broadcasts/:id.
func (h *BroadcastHandler) Update(c *gin.Context) {
	d, ok := bindDraft(c)
	if !ok {
		return
	}

	b, err := h.service.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, b)
}

// Delete handles DELETE /api/v1/admin/broadcasts/:id.
func (h *BroadcastHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Resend handles POST /api/v1/admin/broadcasts/:id/resend.
func (h *BroadcastHandler) Resend(c *gin.Context) {
	b, err := h.service.Resend(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, b)
}

// bindDraft decodes the body. Draft uses validate tags, which gin ignores; the service
// validates and reports every field.
func bindDraft(c *gin.Context) (broadcast.Draft, bool) {
	var d broadcast.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		response.BadRequest(c, err.Error())
		return d, false
	}
	return d, true
}
