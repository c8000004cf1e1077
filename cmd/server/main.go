package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ferrosero91/asistencia/config"
	"github.com/ferrosero91/asistencia/internal/api/handler"
	"github.com/ferrosero91/asistencia/internal/api/router"
	"github.com/ferrosero91/asistencia/internal/repository"
	"github.com/ferrosero91/asistencia/internal/service"
	"github.com/ferrosero91/asistencia/pkg/database"
	"github.com/ferrosero91/asistencia/pkg/jwt"
	applogger "github.com/ferrosero91/asistencia/pkg/logger"
	"github.com/ferrosero91/asistencia/pkg/redis"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error al cargar la configuración: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error al inicializar el logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando la aplicación",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("error al conectar con la base de datos", zap.Error(err))
	}
	logger.Info("conexión a la base de datos establecida")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("error al obtener el sql.DB subyacente", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("error al ejecutar las migraciones", zap.Error(err))
	}

	// Redis is optional: without it the server runs, losing token
	// revocation and rate limiting.
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis no disponible, se deshabilitan la lista negra de tokens y el rate limiting", zap.Error(err))
		rdb = nil
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("error en el servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("señal de apagado recibida, cerrando", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error al apagar el servidor", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("servidor detenido")
}
