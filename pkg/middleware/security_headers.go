package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds response headers for an internal JSON API that
// returns customer data. Responses must never be cached or framed.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		h.Set("Referrer-Policy", "no-referrer")

		c.Next()
	}
}
