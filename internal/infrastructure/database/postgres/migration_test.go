package postgres_test

import (
	"context"
	"testing"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/infrastructure/database/postgres"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/auth"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/testutil"
)

func newMigration(t *testing.T) (*postgres.Migration, *inventory.Ledger) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	ledger := inventory.NewLedger(db, cfg, lock.NewLocalLocker())
	m := postgres.NewMigration(db, cfg, ledger)
	if err := m.RunAutoMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return m, ledger
}

func TestMigration_CreateIndexesOnFreshSchema(t *testing.T) {
	m, _ := newMigration(t)
	if err := m.CreateIndexes(); err != nil {
		t.Fatalf("create indexes: %v", err)
	}
	// Running twice is harmless
	if err := m.CreateIndexes(); err != nil {
		t.Fatalf("create indexes again: %v", err)
	}
}

func TestMigration_SeedInitialData(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	ledger := inventory.NewLedger(db, cfg, lock.NewLocalLocker())
	m := postgres.NewMigration(db, cfg, ledger)
	if err := m.RunAutoMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := m.SeedInitialData(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var owner user.User
	if err := db.Where("email = ?", postgres.SeedOwnerEmail).First(&owner).Error; err != nil {
		t.Fatalf("owner not seeded: %v", err)
	}
	if owner.Role != auth.RoleOwner {
		t.Errorf("expected owner role, got %s", owner.Role)
	}

	var products []product.Product
	if err := db.Find(&products).Error; err != nil {
		t.Fatalf("load products: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected seeded products")
	}

	for _, p := range products {
		rec, err := ledger.Reconcile(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("reconcile %d: %v", p.ID, err)
		}
		if !rec.Consistent {
			t.Errorf("product %s: ledger and stock disagree: %+v", p.Name, rec)
		}
		if !p.CurrentStock.Equal(p.OpeningStock) {
			t.Errorf("product %s: current %s != opening %s", p.Name, p.CurrentStock, p.OpeningStock)
		}
	}

	var movements int64
	db.Model(&inventory.StockMovement{}).Where("type = ?", inventory.MovementOpening).Count(&movements)
	if movements != int64(len(products)) {
		t.Errorf("expected %d opening movements, got %d", len(products), movements)
	}

	var customers int64
	db.Model(&customer.Customer{}).Count(&customers)
	if customers != 1 {
		t.Errorf("expected one seeded customer, got %d", customers)
	}

	// A second run adds nothing
	if err := m.SeedInitialData(); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	var count int64
	db.Model(&product.Product{}).Count(&count)
	if count != int64(len(products)) {
		t.Errorf("reseed duplicated products: %d", count)
	}
}
