package middleware

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/martijn/clientreg/internal/api/dto"
	"github.com/martijn/clientreg/internal/logging"
)

// InternalErrorMessage is the only detail a caller ever sees for a 500.
const InternalErrorMessage = "internal server error"

// ErrorHandlerMiddleware is the single place unexpected failures become a
// response. Panics and errors attached with c.Error are logged with their
// detail and answered with a generic 500 body.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				logging.FromContext(c).Error("Panic recovered",
					slog.Any("panic_value", rec),
					slog.String("stack_trace", string(buf[:n])),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
				)
				abortInternal(c)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, err := range c.Errors {
			logging.FromContext(c).Error("Request failed",
				slog.String("error", err.Error()),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)
		}
		if !c.Writer.Written() {
			abortInternal(c)
		}
	}
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: InternalErrorMessage,
	})
}
