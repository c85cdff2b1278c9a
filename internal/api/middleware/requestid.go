package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/waiyiptam/roslyn/internal/shared/id"
)

// RequestIDKey is the context key carrying the request identifier.
const RequestIDKey = "request_id"

// RequestID assigns each request a ULID and echoes it in the response. An
// inbound X-Request-ID that parses as valid is kept for trace continuity.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || !id.IsValid(rid) {
			rid = id.NewRequestID().String()
		}

		c.Set(RequestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}
