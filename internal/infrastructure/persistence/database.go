package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Allanfoulo/sagebridge-app-sub001/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database pairs the GORM handle used by repositories with the pooled
// sql.DB underneath it, which migrations and health checks use directly.
type Database struct {
	DB  *gorm.DB
	SQL *sql.DB
}

// NewDatabase opens the Postgres pool described by cfg and verifies it with a
// ping. A nil gormLogger silences SQL logging.
func NewDatabase(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	if gormLogger == nil {
		gormLogger = logger.Discard
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db, err := wrap(gdb)
	if err != nil {
		return nil, err
	}
	db.configurePool(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func wrap(gdb *gorm.DB) (*Database, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Database{DB: gdb, SQL: sqlDB}, nil
}

// configurePool applies the pool limits; lifetimes are configured in minutes
func (d *Database) configurePool(cfg *config.DatabaseConfig) {
	d.SQL.SetMaxOpenConns(cfg.MaxOpenConns)
	d.SQL.SetMaxIdleConns(cfg.MaxIdleConns)
	d.SQL.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.SQL.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// PingContext lets the database serve as a health check
func (d *Database) PingContext(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

func (d *Database) Stats() sql.DBStats {
	return d.SQL.Stats()
}

func (d *Database) Close() error {
	return d.SQL.Close()
}
