package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/logger"
	"github.com/2492dfd/stockLog-final/models"
)

var DB *gorm.DB

// InitDB opens the configured database into DB, migrates it and seeds the
// stock master table.
func InitDB(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}

	if err := OptimizeIndexes(db); err != nil {
		logger.Warn(ctx, "Failed to optimize indexes", "error", err)
	}
	if err := SeedStockMaster(ctx, db); err != nil {
		return err
	}

	DB = db
	logger.Info(ctx, "Database connected and migrated successfully", "type", cfg.Type)
	return nil
}

// Open connects and runs AutoMigrate. It does not touch DB.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Type == "sqlite" {
		// one connection keeps an in-memory database alive and avoids
		// SQLITE_BUSY between concurrent writers
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.TradeLog{},
		&models.AiAnalysis{},
		&models.StockMaster{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres", "postgresql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Seoul",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Name + ".db"
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	}
	return gormlogger.Silent
}
