// Package main provides the assistant server entry point.
package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/metrics"
	"github.com/bjtuwh/campus-assistant-go/internal/ratelimit"
)

const requestIDKey = "request_id"

// securityHeadersMiddleware adds security headers to all responses
// Reference: https://gin-gonic.com/en/docs/examples/security-headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")
		// Enable XSS filter in browsers
		c.Header("X-XSS-Protection", "1; mode=block")
		// Strict referrer policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// Restrict permissions
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// Content Security Policy - prevent XSS attacks
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// requestIDMiddleware tags each request with an ID for log correlation.
// An inbound X-Request-ID is honored so upstream proxies can trace calls.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request
		duration := time.Since(start)
		status := c.Writer.Status()

		entry := log.WithRequestID(c.GetString(requestIDKey)).
			WithField("method", method).
			WithField("path", path).
			WithField("status", status).
			WithField("duration_ms", duration.Milliseconds()).
			WithField("ip", c.ClientIP())

		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("Request completed with errors")
		} else {
			switch {
			case status >= 500:
				entry.Error("Request failed")
			case status >= 400:
				entry.Warn("Request completed with client error")
			default:
				entry.Debug("Request completed")
			}
		}
	}
}

// rateLimitMiddleware enforces the global request budget and the
// per-client-IP budget. Either limiter may be nil (disabled).
func rateLimitMiddleware(global *ratelimit.SlidingWindowCounter, perIP *ratelimit.KeyedLimiter, met *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := global.Allow()
		if !allowed {
			met.RecordRateLimiterDrop("global")
		}
		if allowed && !perIP.Allow(c.ClientIP()) {
			allowed = false
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "访问频率过高，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
