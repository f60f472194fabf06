package app

import (
	"context"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunAPI serves HTTP until SIGINT or SIGTERM.
func RunAPI(cfg *config.Config, logger *zap.Logger) error {
	infra, err := Connect(cfg, true)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx := context.Background()
	if cfg.Database.AutoMigrate {
		if err := Migrate(ctx, infra.GormDB, logger); err != nil {
			return err
		}
	}

	modules, err := NewModules(ctx, cfg, infra.DB, infra.GormDB, infra.Redis, kafka.NewOutboxRepository(infra.DB), logger)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, cfg, modules, infra.Redis, logger)

	bootstrap.StartHTTPServer(router, bootstrap.ServerConfig{
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, bootstrap.NewStdoutAuditLogger(logger))
	return nil
}
