// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item sold at the counter.
// CurrentStock is only ever written through the stock ledger.
type Product struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Name           string           `gorm:"not null;size:255" json:"name"`
	SKU            *string          `gorm:"uniqueIndex;size:100" json:"sku"`
	Description    string           `gorm:"type:text" json:"description"`
	Category       string           `gorm:"size:100;index" json:"category"`
	Price          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	CostPrice      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost_price"`
	GSTRate        decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0" json:"gst_rate"`
	OpeningStock   decimal.Decimal  `gorm:"type:decimal(14,3);not null;default:0" json:"opening_stock"`
	CurrentStock   decimal.Decimal  `gorm:"type:decimal(14,3);not null;default:0" json:"current_stock"`
	StockVersion   int64            `gorm:"not null;default:0" json:"-"`
	LowStockAlert  *decimal.Decimal `gorm:"type:decimal(14,3)" json:"low_stock_alert"`
	OverStockAlert *decimal.Decimal `gorm:"type:decimal(14,3)" json:"over_stock_alert"`
	Unit           string           `gorm:"size:20;not null;default:'pcs'" json:"unit"`
	Barcode        string           `gorm:"size:100;index" json:"barcode"`
	ImageURL       string           `gorm:"size:500" json:"image_url"`
	IsActive       bool             `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock is at or below the low-stock threshold
func (p *Product) IsLowStock() bool {
	return p.LowStockAlert != nil && p.CurrentStock.LessThanOrEqual(*p.LowStockAlert)
}

// IsOverStock reports whether stock is at or above the over-stock threshold
func (p *Product) IsOverStock() bool {
	return p.OverStockAlert != nil && p.CurrentStock.GreaterThanOrEqual(*p.OverStockAlert)
}
