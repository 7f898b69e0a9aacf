package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hostella/service-admin/internal/domain"
)

// StatusCoder is implemented by errors that carry an upstream HTTP status.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  interface{} `json:"fields,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries list pagination.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes 200 with data and pagination meta.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Meta: &Meta{Total: total, Page: page, Limit: limit}})
}

// NoContent writes 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes 400 with a message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: message})
}

// Error maps err to a status code and writes it.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, Envelope{Error: vErr.Error(), Fields: vErr.Fields})
		return
	}
	c.JSON(StatusFor(err), Envelope{Error: err.Error()})
}

// StatusFor returns the HTTP status err maps to. Upstream errors keep their status; a
// network failure (status 0) becomes 502.
func StatusFor(err error) int {
	var sc StatusCoder
	switch {
	case domain.IsValidation(err):
		return http.StatusUnprocessableEntity
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsInvalidState(err):
		return http.StatusConflict
	case domain.IsConflict(err):
		return http.StatusConflict
	case domain.IsConfirmationRequired(err):
		return http.StatusPreconditionRequired
	case errors.As(err, &sc):
		if sc.HTTPStatus() == 0 {
			return http.StatusBadGateway
		}
		return sc.HTTPStatus()
	}
	return http.StatusInternalServerError
}
