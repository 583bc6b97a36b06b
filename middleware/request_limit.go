package middleware

import (
	"net/http"

	"docqa-service/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize bounds JSON request bodies.
const DefaultMaxBodySize = 64 << 10

// RequestSizeLimit middleware limits the size of request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
				"Request body exceeds maximum size",
				gin.H{
					"max_size": maxSize,
					"received": c.Request.ContentLength,
				})
			return
		}
		// Chunked bodies carry no Content-Length.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
