package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithError sends an error body. Details are dropped outside gin debug mode.
func RespondWithError(c *gin.Context, statusCode int, message string, details interface{}) {
	if gin.Mode() != gin.DebugMode {
		details = nil
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, message, details)
}

// RespondWithForbidden sends a 403 Forbidden error
func RespondWithForbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, message, nil)
}

// RespondWithTooManyRequests sends a 429 Too Many Requests error
func RespondWithTooManyRequests(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusTooManyRequests, message, details)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, message, details)
}
