package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erp/stockdesk/internal/interfaces/http/dto"
)

// ErrCodeRequestTooLarge is returned when a body exceeds the configured limit
const ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, tooLargeResponse(c))
			return
		}

		// Streaming bodies without Content-Length are capped while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func tooLargeResponse(c *gin.Context) dto.Response {
	return dto.NewErrorResponseWithRequestID(
		ErrCodeRequestTooLarge,
		"Request body exceeds maximum allowed size",
		getRequestID(c),
	)
}
