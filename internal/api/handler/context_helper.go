package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/pkg/response"
)

// MustGetUserID extracts user_id from the Gin context. When the auth
// middleware did not inject it, a 401 is written and ok is false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "No autenticado")
		return "", false
	}
	return s, true
}

// MustGetRole extracts role from the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "No autenticado")
		return "", false
	}
	return s, true
}

// tokenInfo extracts the jti and expiry the auth middleware stored,
// used to blacklist the current token on logout.
func tokenInfo(c *gin.Context) (jti string, exp time.Time) {
	if v, exists := c.Get("token_jti"); exists {
		jti, _ = v.(string)
	}
	if v, exists := c.Get("token_exp"); exists {
		exp, _ = v.(time.Time)
	}
	return jti, exp
}
