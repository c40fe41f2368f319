// Package middleware provides the gin middleware chain: request id,
// recovery, access logging, CORS, rate limiting and caller identity.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"cantina/api/response"
	"cantina/config"
	"cantina/domain/shared"
	"cantina/pkg/errors"
	"cantina/pkg/logger"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
	headerUserRole  = "X-User-Role"

	// ActorKey is the gin context key the identity middleware stores the
	// resolved caller under.
	ActorKey = "actor"
)

// RequestIDMiddleware ensures every request carries a correlation id,
// honoring one supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// RecoveryMiddleware converts panics into a 500 response instead of killing
// the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("request_id", response.GetRequestID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.Any("panic", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, &response.Response{
					Success:   false,
					Error:     string(errors.CodeInternal),
					Message:   "internal server error",
					Code:      http.StatusInternalServerError,
					RequestID: response.GetRequestID(c),
				})
			}
		}()
		c.Next()
	}
}

// LoggingMiddleware writes one access log line per request, leveled by
// response status.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", response.GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// CORSMiddleware applies the configured cross-origin policy.
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowMethods := strings.Join(cfg.AllowMethods, ", ")
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(origin, cfg.AllowOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Header("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// RateLimitMiddleware throttles per client IP using a token bucket.
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	var limiters sync.Map

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		value, _ := limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst))
		limiter := value.(*rate.Limiter)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, &response.Response{
				Success:   false,
				Error:     string(errors.CodeTooManyRequest),
				Message:   "too many requests",
				Code:      http.StatusTooManyRequests,
				RequestID: response.GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// IdentityMiddleware resolves the caller from the identity headers set by the
// gateway. Requests without a valid identity are rejected.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		roleValue := c.GetHeader(headerUserRole)

		if userID == "" || roleValue == "" {
			abortUnauthorized(c, "missing identity headers")
			return
		}
		role, ok := shared.ParseRole(roleValue)
		if !ok {
			abortUnauthorized(c, fmt.Sprintf("unknown role %q", roleValue))
			return
		}

		c.Set(ActorKey, shared.Actor{UserID: userID, Role: role})
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			abortUnauthorized(c, "missing identity")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, &response.Response{
			Success:   false,
			Error:     string(errors.CodeForbidden),
			Message:   "insufficient permissions",
			Code:      http.StatusForbidden,
			RequestID: response.GetRequestID(c),
		})
	}
}

// ActorFromContext returns the caller identity stored by IdentityMiddleware.
func ActorFromContext(c *gin.Context) (shared.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := value.(shared.Actor)
	return actor, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &response.Response{
		Success:   false,
		Error:     string(errors.CodeUnauthorized),
		Message:   message,
		Code:      http.StatusUnauthorized,
		RequestID: response.GetRequestID(c),
	})
}
