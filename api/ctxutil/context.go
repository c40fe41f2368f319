// Package ctxutil bridges gin context values into the plain context passed
// down to application services and repositories.
package ctxutil

import (
	"context"

	"cantina/api/response"
	"cantina/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID copies the request correlation id into the request context.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

// RequestIDFromContext returns the correlation id, if any.
func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
