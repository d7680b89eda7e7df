package middleware

import (
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "requestId"
)

// RequestID reuses an incoming X-Request-ID or mints a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger writes one line per request.
func Logger(logger *gecho.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		log, msg := logger.Debug, "Request handled"
		switch {
		case status >= 500:
			log, msg = logger.Error, "Request failed"
		case status >= 400:
			log, msg = logger.Warn, "Request rejected"
		}
		log(msg,
			gecho.Field("method", c.Request.Method),
			gecho.Field("path", c.Request.URL.Path),
			gecho.Field("status", status),
			gecho.Field("duration", time.Since(start).String()),
			gecho.Field("request_id", c.GetString(RequestIDKey)))
	}
}
