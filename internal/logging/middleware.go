package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
	loggerKey    = "logger"
)

// RequestLogger logs one line per request, at a level picked from the status
// class, and stores a request-scoped logger in the gin context.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := Get().With(slog.String("request_id", c.GetString(RequestIDKey)))
		c.Set(loggerKey, logger)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
			slog.Int("response_size", c.Writer.Size()),
		}

		switch {
		case status >= 500:
			logger.Error("Request completed with server error", attrs...)
		case status >= 400:
			logger.Warn("Request completed with client error", attrs...)
		default:
			logger.Info("Request completed successfully", attrs...)
		}
	}
}

// FromContext returns the request-scoped logger, or the global one outside a
// logged request.
func FromContext(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*slog.Logger); ok {
			return logger
		}
	}
	return Get()
}
