package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/pkg/response"
)

// BodyLimit rejects request bodies larger than maxBytes. Roster file
// uploads go through this limit too, so it must stay above the import
// file cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, "El cuerpo de la petición es demasiado grande")
				return
			}
		}
	}
}
