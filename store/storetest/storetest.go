// Package storetest opens throwaway repositories for tests.
package storetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"matchmate/feed"
	"matchmate/models"
	"matchmate/store"
)

var seq int64

// OpenDB returns a migrated in-memory SQLite database private to the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:matchmate_%d?mode=memory&cache=shared", atomic.AddInt64(&seq, 1))
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DSN:        dsn,
		DriverName: "sqlite",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := models.CreateDefaultCounters(db); err != nil {
		t.Fatalf("seed counters: %v", err)
	}
	return db
}

// NewRepository returns a repository over a fresh database and the
// in-memory feed it publishes to.
func NewRepository(t testing.TB) (*store.GormRepository, *feed.Memory) {
	t.Helper()
	broker := feed.NewMemory()
	t.Cleanup(func() { _ = broker.Close() })
	return store.NewGormRepository(OpenDB(t), broker), broker
}
