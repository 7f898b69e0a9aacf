package hostella

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// NetworkErrorMessage is surfaced when no response was received.
const NetworkErrorMessage = "Network error. Please check your connection."

// APIError is a failed upstream call. StatusCode is 0 when the request never got a response.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string { return e.Message }

// HTTPStatus returns the upstream status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// IsNetwork reports whether the request failed before a response arrived.
func (e *APIError) IsNetwork() bool { return e.StatusCode == 0 }

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsUnauthorized reports whether the upstream rejected the token.
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }

func networkError(method, path string) *APIError {
	return &APIError{Method: method, Path: path, Message: NetworkErrorMessage}
}

// responseError builds an APIError from a non-2xx response: the body's message field,
// then the raw text, then a generic fallback.
func responseError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
		Message:    errorMessage(status, body),
	}
}

func errorMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"message", "error", "error.message"} {
			if v := gjson.GetBytes(body, key); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return v.String()
			}
		}
		// A bare JSON string is the server's text without the quotes.
		if v := gjson.ParseBytes(body); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status %d", status)
}
