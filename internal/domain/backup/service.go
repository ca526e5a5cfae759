// internal/domain/backup/service.go
package backup

import (
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/spreadsheet"
)

// Export types
const (
	TypeProducts  = "products"
	TypeInvoices  = "invoices"
	TypeCustomers = "customers"
)

// Export formats
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Service dumps business data for safekeeping
type Service struct {
	db *gorm.DB
}

// NewService creates a new backup service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ExportRequest represents backup export parameters
type ExportRequest struct {
	Type   string `form:"type" binding:"required"`
	Format string `form:"format"`
}

// Normalize lower-cases the request and defaults the format to JSON
func (r *ExportRequest) Normalize() error {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = FormatJSON
	}

	switch r.Type {
	case TypeProducts, TypeInvoices, TypeCustomers:
	default:
		return apperror.NewInvalidArgument("Invalid export type")
	}
	switch r.Format {
	case FormatJSON, FormatXLSX:
	default:
		return apperror.NewInvalidArgument("Invalid export format")
	}
	return nil
}

// Filename is the suggested download name for the export
func (r *ExportRequest) Filename(date string) string {
	return fmt.Sprintf("backup-%s-%s.%s", r.Type, date, r.Format)
}

// Export loads every row of the requested type, newest first
func (s *Service) Export(exportType string) (interface{}, error) {
	switch exportType {
	case TypeProducts:
		return s.products()
	case TypeInvoices:
		return s.invoices()
	case TypeCustomers:
		return s.customers()
	}
	return nil, apperror.NewInvalidArgument("Invalid export type")
}

// WriteXLSX writes the requested export as a workbook
func (s *Service) WriteXLSX(w io.Writer, exportType string) error {
	var sheets []spreadsheet.Sheet

	switch exportType {
	case TypeProducts:
		products, err := s.products()
		if err != nil {
			return err
		}
		sheets = []spreadsheet.Sheet{productSheet(products)}
	case TypeInvoices:
		invoices, err := s.invoices()
		if err != nil {
			return err
		}
		sheets = invoiceSheets(invoices)
	case TypeCustomers:
		customers, err := s.customers()
		if err != nil {
			return err
		}
		sheets = []spreadsheet.Sheet{customerSheet(customers)}
	default:
		return apperror.NewInvalidArgument("Invalid export type")
	}

	return spreadsheet.Write(w, sheets...)
}

func (s *Service) products() ([]product.Product, error) {
	var products []product.Product
	if err := s.db.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to export products: %w", err)
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

func (s *Service) invoices() ([]invoice.Invoice, error) {
	var invoices []invoice.Invoice
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Customer").
		Order("created_at DESC, id DESC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to export invoices: %w", err)
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	return invoices, nil
}

func (s *Service) customers() ([]customer.Customer, error) {
	var customers []customer.Customer
	if err := s.db.Order("created_at DESC, id DESC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to export customers: %w", err)
	}
	if customers == nil {
		customers = []customer.Customer{}
	}
	return customers, nil
}

func productSheet(products []product.Product) spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{
		Name: "Products",
		Headers: []string{
			"ID", "Name", "SKU", "Category", "Price", "Cost Price", "GST Rate",
			"Opening Stock", "Current Stock", "Low Stock Alert", "Over Stock Alert",
			"Unit", "Barcode", "Active", "Created At",
		},
	}
	for _, p := range products {
		sheet.AddRow(p.ID, p.Name, p.SKU, p.Category, p.Price, p.CostPrice, p.GSTRate,
			p.OpeningStock, p.CurrentStock, p.LowStockAlert, p.OverStockAlert,
			p.Unit, p.Barcode, p.IsActive, p.CreatedAt)
	}
	return sheet
}

func customerSheet(customers []customer.Customer) spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{
		Name:    "Customers",
		Headers: []string{"ID", "Name", "Phone", "Email", "Address", "City", "State", "Pincode", "GSTIN", "Created At"},
	}
	for _, c := range customers {
		sheet.AddRow(c.ID, c.Name, c.Phone, c.Email, c.Address, c.City, c.State, c.Pincode, c.GSTIN, c.CreatedAt)
	}
	return sheet
}

func invoiceSheets(invoices []invoice.Invoice) []spreadsheet.Sheet {
	header := spreadsheet.Sheet{
		Name: "Invoices",
		Headers: []string{
			"ID", "Invoice Number", "Date", "Customer ID", "Customer", "Phone", "Email", "GSTIN",
			"Subtotal", "CGST", "SGST", "Total GST", "Discount", "Total", "Payment Method", "Notes",
		},
	}
	items := spreadsheet.Sheet{
		Name: "Invoice Items",
		Headers: []string{
			"Invoice Number", "Product ID", "Product", "Quantity", "Unit Price", "GST Rate",
			"CGST", "SGST", "Total GST", "Subtotal", "Total",
		},
	}

	for _, inv := range invoices {
		header.AddRow(inv.ID, inv.InvoiceNumber, inv.CreatedAt, inv.CustomerID, inv.CustomerName, inv.CustomerPhone,
			inv.CustomerEmail, inv.CustomerGSTIN, inv.Subtotal, inv.CGST, inv.SGST, inv.TotalGST, inv.Discount,
			inv.Total, inv.PaymentMethod, inv.Notes)
		for _, item := range inv.Items {
			items.AddRow(inv.InvoiceNumber, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.GSTRate,
				item.CGST, item.SGST, item.TotalGST, item.Subtotal, item.Total)
		}
	}
	return []spreadsheet.Sheet{header, items}
}
