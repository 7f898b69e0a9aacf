package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/domain/member"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// MemberHandler handles HTTP requests for onboarded members.
type MemberHandler struct {
	service *application.AdminService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(service *application.AdminService) *MemberHandler {
	return &MemberHandler{service: service}
}

// RegisterRoutes registers member routes.
func (h *MemberHandler) RegisterRoutes(r *gin.RouterGroup) {
	members := r.Group("/api/v1/admin/members")
	{
		members.GET("", h.ListMembers)
		members.PATCH("/:id", h.UpdateMember)
		members.DELETE("/:id", h.DeleteMember)
	}
}

// ListMembers handles GET /api/v1/admin/members.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	page, limit := parsePagination(c)
	response.Paginated(c, paginate(members, page, limit), int64(len(members)), page, limit)
}

// UpdateMember handles PATCH /api/v1/admin/members/:id.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var upd member.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m, err := h.service.UpdateMember(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, m)
}

// DeleteMember handles DELETE /api/v1/admin/members/:id.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	if err := h.service.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
