// internal/testutil/db.go
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database and migrates models into it.
// The database is closed when the test ends.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_pragma=busy_timeout(5000)", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("failed to migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// Config returns a configuration suitable for service tests
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "Retail POS",
			Environment: "test",
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
		Store: config.StoreConfig{
			Name:           "Test Store",
			InvoicePrefix:  "INV",
			CurrencySymbol: "₹",
		},
		Checkout: config.CheckoutConfig{
			MissingProductPolicy: config.MissingProductSkip,
			StockRetryAttempts:   5,
			LockProvider:         config.LockProviderLocal,
			LockTTL:              10 * time.Second,
			LockWait:             5 * time.Second,
			WalkInCustomerName:   "Walk-in Customer",
			DefaultPaymentMethod: "cash",
			PredictionWindowDays: 30,
		},
		Email: config.EmailConfig{
			Provider: "none",
		},
	}
}
