package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/platform/middleware"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// ReceiptHandler handles HTTP requests for the bank-transfer receipt viewer.
type ReceiptHandler struct {
	service *application.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(service *application.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{service: service}
}

// RegisterRoutes registers all receipt routes.
func (h *ReceiptHandler) RegisterRoutes(r *gin.RouterGroup) {
	receipts := r.Group("/api/v1/admin/payments")
	{
		receipts.POST("/:id/receipt", h.ViewReceipt)
		receipts.GET("/:id/receipt/reviews", h.GetReviews)
	}
}

// ViewReceipt handles POST /api/v1/admin/payments/:id/receipt. Opening the receipt
// records a review by the signed-in admin.
func (h *ReceiptHandler) ViewReceipt(c *gin.Context) {
	var req application.ViewReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ViewReceipt(c.Request.Context(), c.Param("id"), middleware.SessionSubject(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetReviews handles GET /api/v1/admin/payments/:id/receipt/reviews.
func (h *ReceiptHandler) GetReviews(c *gin.Context) {
	result, err := h.service.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
