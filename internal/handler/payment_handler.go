package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// PaymentHandler handles HTTP requests for payment review.
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/api/v1/admin/payments")
	{
		payments.GET("/pending", h.PendingPayments)
		payments.GET("/paystack/:reference", h.VerifyPaystack)
		payments.GET("/:id", h.GetPayment)
		payments.POST("/:id/verify", h.VerifyPayment)
	}
}

// PendingPayments handles GET /api/v1/admin/payments/pending.
func (h *PaymentHandler) PendingPayments(c *gin.Context) {
	payments, err := h.service.PendingPayments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, payments)
}

// GetPayment handles GET /api/v1/admin/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.service.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, p)
}

// VerifyPayment handles POST /api/v1/admin/payments/:id/verify.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req application.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.VerifyPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// VerifyPaystack handles GET /api/v1/admin/payments/paystack/:reference.
func (h *PaymentHandler) VerifyPaystack(c *gin.Context) {
	p, err := h.service.VerifyPaystack(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, p)
}
