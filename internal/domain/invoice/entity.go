// internal/domain/invoice/entity.go
package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
)

// Invoice is an immutable record of a completed sale. Customer fields are
// a point-in-time snapshot and never follow later customer edits.
type Invoice struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string          `gorm:"uniqueIndex;not null;size:50" json:"invoice_number"`
	CustomerID      *uint           `gorm:"index" json:"customer_id"`
	CustomerName    string          `gorm:"not null;size:255" json:"customer_name"`
	CustomerPhone   string          `gorm:"size:20" json:"customer_phone"`
	CustomerEmail   string          `gorm:"size:255" json:"customer_email"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	CustomerGSTIN   string          `gorm:"column:customer_gstin;size:15" json:"customer_gstin"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CGST            decimal.Decimal `gorm:"column:cgst;type:decimal(12,3);not null" json:"cgst"`
	SGST            decimal.Decimal `gorm:"column:sgst;type:decimal(12,3);not null" json:"sgst"`
	TotalGST        decimal.Decimal `gorm:"column:total_gst;type:decimal(12,2);not null" json:"total_gst"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"payment_method"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedBy       *uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	Items    []InvoiceItem      `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Customer *customer.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// InvoiceItem is one sold line. Line amounts are stored unrounded; with
// price, quantity and rate within PricePlaces, QuantityPlaces and RatePlaces
// they fit in ten places.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	InvoiceID   uint            `gorm:"not null;index" json:"invoice_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"not null;size:255" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	GSTRate     decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,2);not null" json:"gst_rate"`
	CGST        decimal.Decimal `gorm:"column:cgst;type:decimal(24,10);not null" json:"cgst"`
	SGST        decimal.Decimal `gorm:"column:sgst;type:decimal(24,10);not null" json:"sgst"`
	TotalGST    decimal.Decimal `gorm:"column:total_gst;type:decimal(24,10);not null" json:"total_gst"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"subtotal"`
	Total       decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName overrides the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// TableName overrides the table name for InvoiceItem
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
