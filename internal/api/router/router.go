package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/api/handler"
	"github.com/ferrosero91/asistencia/internal/api/middleware"
	"github.com/ferrosero91/asistencia/internal/model"
	"github.com/ferrosero91/asistencia/pkg/jwt"
	"github.com/ferrosero91/asistencia/pkg/redis"
)

// maxBodyBytes bounds every request body, roster uploads included.
const maxBodyBytes = 10 << 20

// Setup builds the Gin engine with the full route table.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Public auth routes; login is rate limited per IP.
		auth := api.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			materias := authorized.Group("/materias")
			{
				materias.GET("", h.Materia.List)
				materias.POST("", h.Materia.Create)
				materias.PUT("/:id", h.Materia.Update)
				materias.DELETE("/:id", h.Materia.Delete)
				materias.GET("/:id/reporte", h.Reporte.Reporte)
				materias.GET("/:id/reporte/export", h.Reporte.Export)
				materias.GET("/:id/calendario.ics", h.Reporte.Calendario)
			}

			estudiantes := authorized.Group("/estudiantes")
			{
				estudiantes.GET("", h.Estudiante.List)
				estudiantes.POST("", h.Estudiante.Create)
				estudiantes.POST("/import", h.Estudiante.Import)
				estudiantes.PUT("/:id", h.Estudiante.Update)
				estudiantes.DELETE("/:id", h.Estudiante.Delete)
			}

			asistencias := authorized.Group("/asistencias")
			{
				asistencias.GET("", h.Asistencia.List)
				asistencias.POST("", h.Asistencia.Save)
			}

			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleSuperAdmin))
			{
				admin.GET("/stats", h.Admin.Stats)
				admin.GET("/activity", h.Admin.Activity)
				admin.GET("/users", h.Admin.ListUsers)
				admin.POST("/users", h.Admin.CreateUser)
				admin.PUT("/users/:id", h.Admin.UpdateUser)
				admin.DELETE("/users/:id", h.Admin.DeleteUser)
			}
		}
	}

	return r
}
