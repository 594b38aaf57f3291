package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the context key holding the per-request ID.
const RequestIDKey = "request_id"

// RequestID assigns every request a unique ID and echoes it in the
// X-Request-ID response header so the pipeline can correlate its logs
// with the agent's.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Logger is a middleware that logs HTTP requests.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method

		log.Printf("[%s] %s %s %s %d %v",
			c.GetString(RequestIDKey),
			method,
			path,
			c.ClientIP(),
			status,
			latency,
		)
	}
}
