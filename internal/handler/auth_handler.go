package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/application"
	"github.com/Hostella/service-admin/internal/hostella"
	"github.com/Hostella/service-admin/internal/platform/middleware"
	"github.com/Hostella/service-admin/internal/platform/response"
)

// AuthHandler signs the admin in and out.
type AuthHandler struct {
	service      *application.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the session cookie Secure.
func NewAuthHandler(service *application.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookie: secureCookie}
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", h.Login)
		auth.GET("/me", h.Me)
		auth.PATCH("/profile", h.UpdateProfile)
		auth.POST("/logout", h.Logout)
	}
}

// Login handles POST /api/v1/auth/login and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds hostella.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.service.Login(c.Request.Context(), creds)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, session.Token, 0)
	response.Success(c, session)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	admin, err := h.service.Me(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, admin)
}

// UpdateProfile handles PATCH /api/v1/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var upd hostella.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	admin, err := h.service.UpdateProfile(c.Request.Context(), upd)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, admin)
}

// Logout handles POST /api/v1/auth/logout and clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	h.setCookie(c, "", -1)
	response.NoContent(c)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", h.secureCookie, true)
}
