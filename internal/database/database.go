package database

import (
	"fmt"
	"strings"

	"github.com/academic-tracker/backend/internal/config"
	"github.com/academic-tracker/backend/internal/models"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config, log gokitlog.Logger) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	} else {
		logLevel = logger.Silent
	}

	level.Info(log).Log("msg", "connecting to database", "driver", cfg.Database.Driver, "dsn", maskPassword(cfg.Database.DSN))

	dialector, err := dialectorFor(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	level.Info(log).Log("msg", "database connection successful")
	return db, nil
}

// OpenSQLite opens a sqlite database, used for local runs and tests
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if strings.Contains(dsn, ":memory:") {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

func maskPassword(dsn string) string {
	if i := strings.Index(dsn, "password="); i >= 0 {
		end := strings.IndexByte(dsn[i:], ' ')
		if end < 0 {
			return dsn[:i] + "password=***"
		}
		return dsn[:i] + "password=***" + dsn[i+end:]
	}
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if colon := strings.Index(dsn[:at], ":"); colon >= 0 && !strings.Contains(dsn[:colon], "/") {
			return dsn[:colon] + ":***" + dsn[at:]
		}
	}
	return dsn
}

func Migrate(db *gorm.DB, log gokitlog.Logger) error {
	level.Info(log).Log("msg", "running migrations")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}

	indexes := []struct {
		model interface{}
		name  string
	}{
		{&models.Semester{}, "idx_semester_user_number"},
		{&models.Module{}, "idx_module_user_code"},
		{&models.StudySession{}, "idx_session_user_start"},
	}
	for _, idx := range indexes {
		if !db.Migrator().HasIndex(idx.model, idx.name) {
			if err := db.Migrator().CreateIndex(idx.model, idx.name); err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}
	}

	return nil
}
