package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// ChatHandler handles admin support chats.
type ChatHandler struct {
	service *application.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *application.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers chat routes.
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	chats := r.Group("/api/v1/admin/chats")
	{
		chats.GET("", h.ActiveChats)
		chats.GET("/:id/messages", h.Messages)
		chats.POST("/:id/messages", h.Send)
		chats.POST("/:id/attachments", h.Attach)
		chats.POST("/:id/close", h.Close)
	}
}

// ActiveChats handles GET /api/v1/admin/chats.
func (h *ChatHandler) ActiveChats(c *gin.Context) {
	chats, err := h.service.ActiveChats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, chats)
}

// Messages handles GET /api/v1/admin/chats/:id/messages.
func (h *ChatHandler) Messages(c *gin.Context) {
	msgs, err := h.service.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, msgs)
}

// Send handles POST /api/v1/admin/chats/:id/messages.
func (h *ChatHandler) Send(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	m, err := h.service.Send(c.Request.Context(), c.Param("id"), body.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, m)
}

// Attach handles POST /api/v1/admin/chats/:id/attachments with a multipart "file" field.
func (h *ChatHandler) Attach(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer file.Close()

	m, err := h.service.Attach(c.Request.Context(), c.Param("id"), fh.Filename, fh.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, m)
}

// Close handles POST /api/v1/admin/chats/:id/close.
func (h *ChatHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
