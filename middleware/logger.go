package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	utils "github.com/codingclub/content-service/utils"
)

const RequestIDHeader = "X-Request-Id"

// RequestLogger tags every request with an id, stores a request-scoped
// logger on its context and logs the outcome once the handler chain returns.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return requestLoggerWithGenerator(logger, func() string { return uuid.NewString() })
}

func requestLoggerWithGenerator(logger *slog.Logger, generate func() string) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = generate()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := logger.With("request_id", requestID)
		c.Request = c.Request.WithContext(utils.ContextWithLogger(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if uid := c.GetString(UserIDKey); uid != "" {
			attrs = append(attrs, "user_id", uid)
		}
		if status >= 500 {
			reqLogger.Error("request completed", attrs...)
			return
		}
		reqLogger.Info("request completed", attrs...)
	}
}
