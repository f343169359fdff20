package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one access line per request, keyed by request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		line := "[HTTP] request_id=%s method=%s path=%s status=%d bytes=%d latency_ms=%.3f ip=%s"
		args := []any{
			GetRequestID(c),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Writer.Size(),
			float64(latency.Microseconds()) / 1000.0,
			c.ClientIP(),
		}
		if errs := c.Errors.String(); errs != "" {
			line += " errors=%q"
			args = append(args, errs)
		}
		log.Printf(line, args...)
	}
}
