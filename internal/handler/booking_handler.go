package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/reconciliation"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking reconciliation.
type BookingHandler struct {
	service *application.AdminService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.AdminService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/admin/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.GET("/:id/suitable-rooms", h.SuitableRooms)
		bookings.POST("/:id/actions/:action", h.ExecuteAction)
	}
}

// ListBookings handles GET /api/v1/admin/bookings. The status filter accepts legacy and
// canonical forms.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := booking.Filter{
		Status: c.Query("status"),
		Gender: booking.Gender(c.Query("gender")),
		Search: c.Query("search"),
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, limit := parsePagination(c)
	response.Paginated(c, paginate(bookings, page, limit), int64(len(bookings)), page, limit)
}

// GetBooking handles GET /api/v1/admin/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	result, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateBooking handles POST /api/v1/admin/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// DeleteBooking handles DELETE /api/v1/admin/bookings/:id?confirm=true.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	confirm, _ := strconv.ParseBool(c.Query("confirm"))

	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id"), confirm); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SuitableRooms handles GET /api/v1/admin/bookings/:id/suitable-rooms?isMember=true. An
// empty list is a successful response.
func (h *BookingHandler) SuitableRooms(c *gin.Context) {
	isMember, err := parseFlag(c.Query("isMember"))
	if err != nil {
		response.Error(c, domain.NewFieldValidationError("isMember", "must be true or false"))
		return
	}
	result, err := h.service.SuitableRooms(c.Request.Context(), c.Param("id"), isMember)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ExecuteAction handles POST /api/v1/admin/bookings/:id/actions/:action.
func (h *BookingHandler) ExecuteAction(c *gin.Context) {
	action, err := reconciliation.ParseAction(c.Param("action"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var in application.ActionInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Execute(c.Request.Context(), c.Param("id"), action, in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 || limit < 1 {
		return []T{}
	}
	// Compare before multiplying so a huge page cannot overflow.
	if page-1 >= (len(items)+limit-1)/limit {
		return []T{}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func parseFlag(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
