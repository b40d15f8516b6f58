package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Angeloac12/siigo-cotizador/internal/logger"
)

// Header and context keys.
const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderAPIKey        = "X-API-Key"
	ContextOrgID        = "org_id"
	ContextCorrelation  = "correlation_id"
)

// CorrelationMiddleware assigns every request a correlation id, honoring one
// supplied by the caller, and echoes it back in the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(HeaderCorrelationID)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set(ContextCorrelation, cid)
		c.Writer.Header().Set(HeaderCorrelationID, cid)
		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Int64("duration_ms", time.Since(start).Milliseconds()),
			logger.String("correlation_id", c.GetString(ContextCorrelation)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}

// AuthMiddleware enforces the API key and resolves the caller's org. With an
// empty configured key, authentication is disabled (local development).
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" && c.GetHeader(HeaderAPIKey) != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:     "invalid or missing API key",
				Code:      "UNAUTHORIZED",
				Timestamp: time.Now(),
			})
			return
		}

		orgID := c.GetHeader("X-Org-ID")
		if orgID == "" {
			orgID = "default"
		}
		c.Set(ContextOrgID, orgID)
		c.Next()
	}
}

// RecoveryMiddleware turns panics into 500 responses.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:     "internal server error",
					Code:      "INTERNAL_ERROR",
					Timestamp: time.Now(),
				})
			}
		}()

		c.Next()
	}
}
