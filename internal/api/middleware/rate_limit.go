package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/pkg/redis"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// RateLimit caps requests per client IP and route using a Redis fixed
// window. With rdb nil, or when Redis fails, the request is let
// through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "Demasiadas peticiones, intenta de nuevo más tarde")
			c.Abort()
			return
		}

		c.Next()
	}
}
