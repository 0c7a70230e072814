// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/2492dfd/stockLog-final/config"
	"github.com/2492dfd/stockLog-final/database"
	"github.com/2492dfd/stockLog-final/models"
)

var seq int64

// Open returns a migrated in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:stocklog_test_%d?mode=memory&cache=shared", atomic.AddInt64(&seq, 1))
	db, err := database.Open(config.DatabaseConfig{Type: "sqlite", DSN: name, LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.OptimizeIndexes(db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}
	if err := database.SeedStockMaster(context.Background(), db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user row and returns its id.
func CreateUser(t testing.TB, db *gorm.DB, id string) string {
	t.Helper()
	if err := db.Create(&models.User{ID: id, Nickname: id}).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}
