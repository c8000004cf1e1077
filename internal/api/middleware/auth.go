package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ferrosero91/asistencia/pkg/jwt"
	"github.com/ferrosero91/asistencia/pkg/redis"
	"github.com/ferrosero91/asistencia/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// JWTAuth extracts and validates the access token from
// Authorization: Bearer <token>. Revoked tokens are rejected via the
// Redis blacklist; with rdb nil the blacklist check is skipped.
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Falta el encabezado de autenticación")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Encabezado de autenticación inválido")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Token inválido o expirado")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, "Tipo de token inválido")
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && revoked {
				response.Unauthorized(c, "La sesión fue cerrada")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		var exp time.Time
		if claims.ExpiresAt != nil {
			exp = claims.ExpiresAt.Time
		}
		c.Set(CtxTokenExp, exp)

		c.Next()
	}
}

// RoleAuth allows the request through only when the authenticated role
// is one of allowedRoles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Unauthorized(c, "No autenticado")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "No tienes permisos para acceder a este recurso")
		c.Abort()
	}
}
