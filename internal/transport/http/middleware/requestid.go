package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the wire header; KeyRequestID keys the assigned id in
// the request context for the access log and error pages.
const (
	HeaderRequestID = "X-Request-ID"
	KeyRequestID    = "request_id"
)

// RequestID tags every request with a UUID. An incoming header is honored
// only when it already is a UUID, anything else from the client is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}

// RequestIDFrom returns the id RequestID assigned to this request.
func RequestIDFrom(c *gin.Context) string { return c.GetString(KeyRequestID) }
