// Package handler provides the HTTP surface of the arena.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hpn/prompt-arena/internal/domain"
	"github.com/hpn/prompt-arena/internal/ratelimit"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// MsgRateLimited is the body text of a 429 answer.
const MsgRateLimited = "Rate limit exceeded. Please wait a minute and try again."

// MsgNotConfigured is the body text when no upstream credential is set.
const MsgNotConfigured = "Server API key not configured"

// CORSMiddleware returns a middleware that enables permissive CORS.
// This allows web applications to call the API directly.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// LoggingMiddleware returns a middleware that logs request details in JSON format.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		requestID := c.GetString("request_id")
		clientAuth := c.GetString("client_auth")

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", requestID),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if clientAuth != "" {
			attrs = append(attrs, slog.String("client_auth", clientAuth))
		}
		if model := c.GetString("model"); model != "" {
			attrs = append(attrs, slog.String("model", model))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}

		logger.Info("request completed", attrs...)
	}
}

// RecoveryMiddleware returns a middleware that recovers from panics.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", c.GetString("request_id")),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
					"type":  "server_error",
				})
			}
		}()

		c.Next()
	}
}

// StripAuthHeadersMiddleware drops any client Authorization header. The
// server always talks upstream with its own credential; the client value
// is only kept, masked, for the request log.
func StripAuthHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); auth != "" {
			c.Set("client_auth", maskKey(auth))
			c.Request.Header.Del("Authorization")
		}

		c.Next()
	}
}

// RequireCredentialMiddleware answers 500 when the server has no upstream
// credential. It runs ahead of the rate limiter so misconfiguration does
// not consume client quota.
func RequireCredentialMiddleware(configured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !configured {
			_ = c.Error(domain.ErrNotConfigured)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": MsgNotConfigured,
				"type":  "not_configured",
			})
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware consumes one unit of the client's window per request.
// A failing store lets the request through.
func RateLimitMiddleware(store ratelimit.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.ClientKey(c.Request.Header)

		allowed, err := store.CheckAndConsume(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limit store failed",
				slog.String("client", key),
				slog.String("error", err.Error()),
			)
			c.Next()
			return
		}

		if !allowed {
			logger.Info("rate limited",
				slog.String("client", key),
				slog.String("path", c.Request.URL.Path),
				slog.String("error", domain.ErrRateLimited.Error()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": MsgRateLimited,
				"type":  "rate_limited",
			})
			return
		}

		c.Next()
	}
}

// maskKey returns a masked version of a credential for logging.
// Shows first 8 and last 4 characters.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
