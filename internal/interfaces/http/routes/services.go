// internal/interfaces/http/routes/services.go
package routes

import (
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/analytics"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/backup"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/checkout"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/marketing"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/reminder"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/handlers"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/email"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pdf"
)

// Options carries the pluggable collaborators of the services.
// Zero values fall back to in-process defaults.
type Options struct {
	Locker   lock.Locker
	Cache    analytics.Cache
	Renderer handlers.InvoiceRenderer
	Mailer   handlers.InvoiceMailer
}

// Services is the wired set of domain services behind the API
type Services struct {
	Users     *user.Service
	Products  *product.Service
	Customers *customer.Service
	Invoices  *invoice.Service
	Checkout  *checkout.Service
	Ledger    *inventory.Ledger
	Stock     *inventory.Service
	Reminders *reminder.Service
	Marketing *marketing.Service
	Analytics *analytics.Service
	Backup    *backup.Service
	Renderer  handlers.InvoiceRenderer
	Mailer    handlers.InvoiceMailer
}

// NewServices builds every service on one database handle. All stock
// writers share a single ledger and therefore a single locker.
func NewServices(db *gorm.DB, cfg *config.Config, opts Options) *Services {
	ledger := inventory.NewLedger(db, cfg, opts.Locker)
	customers := customer.NewService(db, cfg)
	invoices := invoice.NewService(db, cfg)

	renderer := opts.Renderer
	if renderer == nil {
		renderer = pdf.NewService(cfg)
	}
	mailer := opts.Mailer
	if mailer == nil {
		mailer = email.NewEmailService(cfg)
	}

	return &Services{
		Users:     user.NewService(db, cfg),
		Products:  product.NewService(db, cfg, ledger),
		Customers: customers,
		Invoices:  invoices,
		Checkout:  checkout.NewService(db, cfg, ledger, customers, invoices),
		Ledger:    ledger,
		Stock:     inventory.NewService(db, cfg, ledger),
		Reminders: reminder.NewService(db),
		Marketing: marketing.NewService(db),
		Analytics: analytics.NewService(db, cfg, opts.Cache),
		Backup:    backup.NewService(db),
		Renderer:  renderer,
		Mailer:    mailer,
	}
}
