package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger writes one line per request, plus the gin errors attached
// by handlers.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("request method=%s path=%s query=%s status=%d latency=%s client_ip=%s request_id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Request.URL.RawQuery,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			GetRequestID(c),
		)
		for _, err := range c.Errors {
			log.Printf("request_error request_id=%s status=%d error=%q", GetRequestID(c), c.Writer.Status(), err.Error())
		}
		if c.Writer.Status() >= http.StatusInternalServerError && len(c.Errors) == 0 {
			log.Printf("request_error request_id=%s status=%d", GetRequestID(c), c.Writer.Status())
		}
	}
}
