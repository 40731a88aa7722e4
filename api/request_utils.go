package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuraldesk/billing/internal/slogging"
)

// RequestError represents an error that maps to an HTTP error response
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// HandleRequestError sends the appropriate HTTP error response.
// Unexpected (non-RequestError) errors are logged server-side and
// surfaced to the client as a generic 500 so internal detail never leaks.
func HandleRequestError(c *gin.Context, err error) {
	if reqErr, ok := err.(*RequestError); ok {
		c.JSON(reqErr.Status, ErrorResponse{Error: reqErr.Message})
		return
	}

	logger := slogging.Get()
	logger.Error("unexpected error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// InvalidInputError creates a RequestError for validation failures
func InvalidInputError(message string) *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_input",
		Message: message,
	}
}

// UnauthorizedError creates a RequestError for authentication failures.
// The message is always the same; auth internals are never exposed.
func UnauthorizedError() *RequestError {
	return &RequestError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "Unauthorized",
	}
}

// RateLimitError creates a RequestError for rate limit rejections
func RateLimitError(message string) *RequestError {
	return &RequestError{
		Status:  http.StatusTooManyRequests,
		Code:    "rate_limit_exceeded",
		Message: message,
	}
}

// ServerError creates a RequestError for internal failures
func ServerError(message string) *RequestError {
	return &RequestError{
		Status:  http.StatusInternalServerError,
		Code:    "server_error",
		Message: message,
	}
}
