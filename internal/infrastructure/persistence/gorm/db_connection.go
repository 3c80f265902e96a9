// Package gorm provides the relational store for investigation cases. SQLite
// backs local/demo runs; Postgres backs shared deployments. The driver is
// selected by configuration and nothing above this package knows which one is
// in use.
package gorm

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Open connects to the configured database and migrates the investigation
// schema.
func Open(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, errors.New(errors.CodeInvalidArgument, "unsupported database driver "+cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "failed to open database")
	}

	if err := db.WithContext(ctx).AutoMigrate(&models.Investigation{}); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to migrate schema")
	}

	log.Info(ctx, "database ready", logger.Fields{"driver": cfg.Driver})
	return db, nil
}
