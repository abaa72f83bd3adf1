package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware logs one line per request. Register traffic is
// correlated by the staff and store the auth middleware resolved from
// the token, so both appear on the line when present.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		// Auth runs after this middleware, but the claims it sets are
		// visible here because logging happens on the way out.
		operator := "-"
		if staffCode := c.GetString("staff_code"); staffCode != "" {
			operator = staffCode + "@" + c.GetString("store_code")
		}

		log.Printf("[%s] %s %s | %d | %v | %s | %s",
			requestID[:8],
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			operator,
			c.ClientIP(),
		)

		for _, e := range c.Errors {
			log.Printf("[%s] Error: %v", requestID[:8], e.Err)
		}
	}
}
