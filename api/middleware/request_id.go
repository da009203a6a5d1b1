// api/middleware/request_id.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a correlation id to every request, reusing the
// client-supplied header when present. The id is echoed in the response and
// logged so a failing request can be traced across log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("requestId", requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		customLog.WithField("requestId", requestID).
			Debugf("%s %s", c.Request.Method, c.Request.URL.Path)

		c.Next()
	}
}
