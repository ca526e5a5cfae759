// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType represents the kind of stock-affecting event
type MovementType string

const (
	MovementOpening    MovementType = "OPENING"
	MovementSale       MovementType = "SALE"
	MovementPurchase   MovementType = "PURCHASE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// QuantityPlaces is the scale of stored quantities and stock levels
const QuantityPlaces = 3

// IsValid reports whether t is a known movement type
func (t MovementType) IsValid() bool {
	switch t {
	case MovementOpening, MovementSale, MovementPurchase, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// StockMovement is one append-only ledger entry.
// NewStock == PreviousStock + Quantity for every row.
type StockMovement struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ProductID     uint            `gorm:"not null;index:idx_stock_movements_product_created,priority:1" json:"product_id"`
	InvoiceID     *uint           `gorm:"index" json:"invoice_id"`
	Type          MovementType    `gorm:"not null;size:20;index" json:"type"`
	Quantity      decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	PreviousStock decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"previous_stock"`
	NewStock      decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"new_stock"`
	Reason        string          `gorm:"size:255;not null" json:"reason"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedBy     *uint           `gorm:"index" json:"created_by"`
	CreatedAt     time.Time       `gorm:"index:idx_stock_movements_product_created,priority:2" json:"created_at"`

	// Display only, filled by history queries
	ProductName   string `gorm:"-:migration;->" json:"product_name,omitempty"`
	ProductSKU    string `gorm:"-:migration;->" json:"product_sku,omitempty"`
	InvoiceNumber string `gorm:"-:migration;->" json:"invoice_number,omitempty"`
}

// TableName overrides the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}
