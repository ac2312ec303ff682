package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/taskboard/internal/domain/entity"
)

const (
	requestContextKey = "request_context"
	requestIDKey      = "request_id"
	HeaderRequestID   = "X-Request-ID"
)

// RequestContext is the per-request state shared by middleware and handlers.
// Caller is set only by the auth gate.
type RequestContext struct {
	RequestID string
	Caller    *entity.User
}

// GetRequestContext returns the request's context, creating it if missing.
func GetRequestContext(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	rc := &RequestContext{RequestID: c.GetString(requestIDKey)}
	c.Set(requestContextKey, rc)
	return rc
}

// Caller returns the authenticated user, or nil outside the auth gate.
func Caller(c *gin.Context) *entity.User {
	return GetRequestContext(c).Caller
}

// RequestIDMiddleware assigns every request an id, reusing a well-formed
// X-Request-ID from the client.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Set(requestContextKey, &RequestContext{RequestID: id})
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}
