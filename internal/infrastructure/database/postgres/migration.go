// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/reminder"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
)

// Seeded development owner account
const (
	SeedOwnerEmail    = "owner@example.com"
	SeedOwnerPassword = "owner123"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
	ledger *inventory.Ledger
}

// NewMigration creates a new migration instance. ledger records the
// opening stock of seeded products.
func NewMigration(db *gorm.DB, cfg *config.Config, ledger *inventory.Ledger) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
		ledger: ledger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&customer.Customer{},
		&product.Product{},
		&invoice.Invoice{},
		&invoice.InvoiceItem{},
		&inventory.StockMovement{},
		&reminder.Reminder{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("running database auto-migrations")

	for _, model := range Models() {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logrus.WithField("models", len(Models())).Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates composite indexes the struct tags cannot express.
// A failed index is logged and skipped.
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// Reports scan invoices by date and join their items
		"CREATE INDEX IF NOT EXISTS idx_invoices_created_customer ON invoices(created_at, customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice_product ON invoice_items(invoice_id, product_id)",

		// Stock history filters
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_type_created ON stock_movements(type, created_at)",

		// Product alerts
		"CREATE INDEX IF NOT EXISTS idx_products_active_stock ON products(is_active, current_stock)",

		// Customer lookups at the counter
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)",

		// Pending reminders by due date
		"CREATE INDEX IF NOT EXISTS idx_reminders_status_due ON reminders(status, due_date)",
	}

	created, failed := 0, 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			logrus.WithError(err).WithField("sql", indexSQL).Warn("failed to create index")
			failed++
			continue
		}
		created++
	}

	logrus.WithFields(logrus.Fields{
		"created": created,
		"failed":  failed,
	}).Info("indexes created")
	return nil
}

// SeedInitialData inserts a development owner, a few products with opening
// stock and a customer. Existing rows are left alone.
func (m *Migration) SeedInitialData() error {
	logrus.Info("seeding initial data")

	if err := m.seedOwner(); err != nil {
		return fmt.Errorf("failed to seed owner: %w", err)
	}

	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	if err := m.seedCustomer(); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	logrus.Info("initial data seeded")
	return nil
}

func (m *Migration) seedOwner() error {
	var count int64
	if err := m.db.Model(&user.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logrus.WithField("users", count).Debug("users already exist, skipping owner seed")
		return nil
	}

	owner, err := user.NewService(m.db, m.config).Register(&user.RegisterRequest{
		Email:    SeedOwnerEmail,
		Password: SeedOwnerPassword,
		Name:     "Store Owner",
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": owner.ID,
		"email":   owner.Email,
	}).Info("created development owner")
	return nil
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logrus.WithField("products", count).Debug("products already exist, skipping product seed")
		return nil
	}

	low := decimal.NewFromInt(10)
	over := decimal.NewFromInt(500)

	seeds := []product.CreateRequest{
		{
			Name:           "Basmati Rice 1kg",
			SKU:            "RICE-1KG",
			Category:       "Groceries",
			Price:          decimal.RequireFromString("120.00"),
			GSTRate:        decimal.NewFromInt(5),
			OpeningStock:   decimal.NewFromInt(100),
			LowStockAlert:  &low,
			OverStockAlert: &over,
			Unit:           "pcs",
		},
		{
			Name:          "Sunflower Oil 1L",
			SKU:           "OIL-1L",
			Category:      "Groceries",
			Price:         decimal.RequireFromString("165.50"),
			GSTRate:       decimal.NewFromInt(5),
			OpeningStock:  decimal.NewFromInt(40),
			LowStockAlert: &low,
			Unit:          "pcs",
		},
		{
			Name:          "Steel Water Bottle",
			SKU:           "BTL-STEEL",
			Category:      "Household",
			Price:         decimal.RequireFromString("349.00"),
			GSTRate:       decimal.NewFromInt(18),
			OpeningStock:  decimal.NewFromInt(25),
			LowStockAlert: &low,
			Unit:          "pcs",
		},
		{
			Name:         "Loose Sugar",
			SKU:          "SUGAR-KG",
			Category:     "Groceries",
			Price:        decimal.RequireFromString("44.00"),
			GSTRate:      decimal.Zero,
			OpeningStock: decimal.RequireFromString("75.5"),
			Unit:         "kg",
		},
	}

	products := product.NewService(m.db, m.config, m.ledger)
	for i := range seeds {
		p, err := products.CreateProduct(&seeds[i], nil)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"product_id": p.ID,
			"name":       p.Name,
			"stock":      p.CurrentStock.String(),
		}).Info("created product")
	}

	return nil
}

func (m *Migration) seedCustomer() error {
	var count int64
	if err := m.db.Model(&customer.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	c, err := customer.NewService(m.db, m.config).CreateCustomer(&customer.CreateRequest{
		Name:  "Ravi Kumar",
		Phone: "9876543210",
		Email: "ravi@example.com",
		City:  "Chennai",
		State: "Tamil Nadu",
	})
	if err != nil {
		return err
	}

	logrus.WithField("customer_id", c.ID).Info("created customer")
	return nil
}
