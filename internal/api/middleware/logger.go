package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timmy/arbitrage/internal/logger"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const loggerKey = "logger"

// LoggerMiddleware attaches a request-scoped logger to the request context
// and logs one line per request. A well-formed incoming X-Request-ID is kept
// so a renderer can correlate its own calls; anything else is replaced.
func LoggerMiddleware(base *logger.Logger) gin.HandlerFunc {
	if base == nil {
		base = logger.GetDefault()
	}
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		reqLog := base.WithFields(logger.Fields{
			logger.FieldRequestID: id,
			logger.FieldComponent: "api",
		})
		ctx := reqLog.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Set(loggerKey, reqLog)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		entry := logger.With(logger.Fields{
			logger.FieldStatus: status,
			logger.FieldSize:   c.Writer.Size(),
			"method":           c.Request.Method,
			"route":            c.FullPath(),
			"client_ip":        c.ClientIP(),
		}).WithDuration(time.Since(start).Milliseconds())

		switch {
		case len(c.Errors) > 0:
			entry.Warn(ctx, "%s %s failed: %s", c.Request.Method, c.Request.URL.Path, c.Errors.String())
		case status >= http.StatusInternalServerError:
			entry.Warn(ctx, "%s %s", c.Request.Method, c.Request.URL.Path)
		default:
			entry.Info(ctx, "%s %s", c.Request.Method, c.Request.URL.Path)
		}
	}
}

// GetLogger returns the request-scoped logger, falling back to the one in the
// request context.
func GetLogger(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.FromContext(c.Request.Context())
}
