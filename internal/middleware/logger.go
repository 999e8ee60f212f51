package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
)

// Logger tags each request with a trace id and writes one log line per request
func Logger(logger gokitlog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Header("X-Trace-ID", traceID)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		keyvals := []interface{}{
			"msg", "request",
			"trace_id", traceID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "err", c.Errors.String())
		}

		switch {
		case statusCode >= 500:
			level.Error(logger).Log(keyvals...)
		case statusCode >= 400:
			level.Warn(logger).Log(keyvals...)
		default:
			level.Info(logger).Log(keyvals...)
		}
	}
}
