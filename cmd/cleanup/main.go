package main

import (
	"fmt"
	"os"
	"time"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/database"
	"github.com/academic-tracker/backend/internal/logging"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/go-kit/log/level"
)

// cleanup runs the maintenance job once, for cron or manual use
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}
	logger := logging.New(logging.LevelFor(cfg.Server.Env, cfg.Server.LogLevel))

	db, err := database.Connect(cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to connect to database", "err", err)
		os.Exit(1)
	}

	maintenance := services.NewMaintenanceService(
		services.NewAuthService(db, cfg),
		services.NewAuditService(db),
		cfg.Maintenance.AuditRetention,
		logger,
	)
	if err := maintenance.Run(time.Now().UTC()); err != nil {
		level.Error(logger).Log("msg", "cleanup failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "database cleanup completed")
}
