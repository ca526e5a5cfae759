// internal/domain/invoice/service.go
package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pagination"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

// Service handles invoice queries and persistence
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new invoice service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents invoice list query parameters
type ListRequest struct {
	pagination.Params
	CustomerID uint   `form:"customer_id"`
	Search     string `form:"search"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
}

// ListResponse represents a page of invoices
type ListResponse struct {
	Invoices   []Invoice `json:"invoices"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// GetInvoices retrieves invoices with filtering and pagination
func (s *Service) GetInvoices(req *ListRequest) (*ListResponse, error) {
	req.Normalize()

	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var invoices []Invoice
	var total int64

	query := s.db.Model(&Invoice{})

	if req.CustomerID > 0 {
		query = query.Where("customer_id = ?", req.CustomerID)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ?", search, search)
	}

	if dates.From != nil {
		query = query.Where("created_at >= ?", *dates.From)
	}
	if dates.To != nil {
		query = query.Where("created_at < ?", *dates.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	if err := query.Preload("Items").
		Preload("Customer").
		Order("created_at DESC, id DESC").
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	if invoices == nil {
		invoices = []Invoice{}
	}

	p := pagination.New(req.Page, req.Limit, total)
	return &ListResponse{
		Invoices:   invoices,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}, nil
}

// GetInvoice retrieves an invoice with its items and customer
func (s *Service) GetInvoice(id uint) (*Invoice, error) {
	return s.FindByID(s.db, id)
}

// FindByID loads an invoice with its items and customer using db,
// which may be a transaction
func (s *Service) FindByID(db *gorm.DB, id uint) (*Invoice, error) {
	var invoice Invoice
	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Customer").
		Where("id = ?", id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Invoice")
		}
		return nil, fmt.Errorf("failed to retrieve invoice: %w", err)
	}
	return &invoice, nil
}

// GetRecentForCustomer returns the latest invoices of a customer
func (s *Service) GetRecentForCustomer(customerID uint, limit int) ([]Invoice, error) {
	var invoices []Invoice
	if err := s.db.Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customer invoices: %w", err)
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	return invoices, nil
}

// CreateWithItems persists an invoice and its items inside tx and assigns
// the invoice number, which is derived from the row id.
func (s *Service) CreateWithItems(tx *gorm.DB, invoice *Invoice) error {
	items := invoice.Items
	invoice.Items = nil
	invoice.Customer = nil

	// Placeholder keeps the unique index satisfied until the id is known.
	invoice.InvoiceNumber = "TMP-" + uuid.NewString()
	if err := tx.Create(invoice).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	invoice.InvoiceNumber = s.generateInvoiceNumber(invoice.ID, invoice.CreatedAt)
	if err := tx.Model(invoice).Update("invoice_number", invoice.InvoiceNumber).Error; err != nil {
		return fmt.Errorf("failed to update invoice number: %w", err)
	}

	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create invoice items: %w", err)
		}
	}

	invoice.Items = items
	return nil
}

func (s *Service) generateInvoiceNumber(invoiceID uint, createdAt time.Time) string {
	// Format: <PREFIX>-YYYYMMDD-XXXXX
	prefix := "INV"
	if s.config != nil && s.config.Store.InvoicePrefix != "" {
		prefix = s.config.Store.InvoicePrefix
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, createdAt.Format("20060102"), invoiceID)
}
