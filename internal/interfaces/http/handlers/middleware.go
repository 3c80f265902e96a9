// Package handlers contains the gin handlers and shared middleware of the
// HTTP API.
package handlers

import (
	"context"
	goerrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// RequestIDMiddleware assigns every request a correlation id, echoed in the
// X-Request-ID response header and carried in the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// SessionMiddleware extracts the dashboard session id header into the request
// context. Missing ids are fine; the session service creates one on demand.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID := c.GetHeader(constants.HeaderSessionID); sessionID != "" {
			ctx := context.WithValue(c.Request.Context(), constants.ContextKeySessionID, sessionID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request processed", logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}

// MetricsMiddleware records request counters and latency histograms.
func MetricsMiddleware(metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RecoveryMiddleware converts panics into a clean 500 response.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "panic recovered", goerrors.New("panic"), logger.Fields{"panic": r})
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.ErrorResponse(errors.New(errors.CodeInternal, "internal server error"), requestID(c)))
			}
		}()
		c.Next()
	}
}

// sendError maps an error to its HTTP status and writes the failure envelope.
func sendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if appErr, ok := errors.As(err); ok {
		status = appErr.HTTPStatus()
	}
	c.JSON(status, dto.ErrorResponse(err, requestID(c)))
}

// sendSuccess writes the success envelope.
func sendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.SuccessResponse(data, requestID(c)))
}

func requestID(c *gin.Context) string {
	if id, ok := c.Request.Context().Value(constants.ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func sessionID(c *gin.Context) string {
	return c.GetHeader(constants.HeaderSessionID)
}
