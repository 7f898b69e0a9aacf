package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// DashboardHandler serves the landing and dashboard routes.
type DashboardHandler struct {
	service *application.AdminService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *application.AdminService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers the landing, dashboard and stats routes.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Home)
	r.GET("/dashboard", h.Dashboard)
	r.GET("/api/v1/admin/stats/bookings", h.BookingStats)
}

// Home handles GET /. Signed-in admins are redirected to /dashboard by the route guard.
func (h *DashboardHandler) Home(c *gin.Context) {
	response.Success(c, gin.H{"login": "/api/v1/auth/login"})
}

// Dashboard handles GET /dashboard. The snapshot is refreshed before counting.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	if err := h.service.SyncBookings(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.BookingStats(c)
}

// BookingStats handles GET /api/v1/admin/stats/bookings.
func (h *DashboardHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
