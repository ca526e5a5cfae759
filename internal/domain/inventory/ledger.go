// internal/domain/inventory/ledger.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/lock"
)

// MovementRequest describes one stock-affecting event. Quantity is the
// signed delta: negative for sales, positive for opening, purchase and
// return, either sign for adjustments.
type MovementRequest struct {
	ProductID uint
	Type      MovementType
	Quantity  decimal.Decimal
	Reason    string
	Notes     string
	InvoiceID *uint
	ActorID   *uint
}

// Ledger is the only writer of product stock levels
type Ledger struct {
	db     *gorm.DB
	config *config.Config
	locker lock.Locker
}

// NewLedger creates a stock ledger. locker serializes writers per product.
func NewLedger(db *gorm.DB, cfg *config.Config, locker lock.Locker) *Ledger {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &Ledger{
		db:     db,
		config: cfg,
		locker: locker,
	}
}

// ProductLockKey is the lock name guarding a product's stock
func ProductLockKey(productID uint) string {
	return fmt.Sprintf("stock:product:%d", productID)
}

// Locker returns the locker guarding product stock
func (l *Ledger) Locker() lock.Locker {
	return l.locker
}

// RecordMovement applies one movement under the product lock in its own
// transaction. Stock and the ledger row change together or not at all.
func (l *Ledger) RecordMovement(ctx context.Context, req MovementRequest) (*StockMovement, error) {
	release, err := l.locker.Lock(ctx, ProductLockKey(req.ProductID))
	if err != nil {
		return nil, err
	}
	defer release()

	var movement *StockMovement
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		movement, err = l.RecordMovementTx(tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RecordMovementTx applies one movement inside tx. The stock write is a
// compare-and-swap on stock_version so a concurrent writer that bypassed
// the lock causes a re-read instead of a lost update.
func (l *Ledger) RecordMovementTx(tx *gorm.DB, req MovementRequest) (*StockMovement, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	attempts := 1
	if l.config != nil && l.config.Checkout.StockRetryAttempts > 0 {
		attempts = l.config.Checkout.StockRetryAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		var p product.Product
		if err := tx.Select("id", "name", "current_stock", "stock_version").
			Where("id = ?", req.ProductID).
			First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NewNotFound("Product")
			}
			return nil, fmt.Errorf("failed to read product stock: %w", err)
		}

		previous := p.CurrentStock
		next := previous.Add(req.Quantity)
		if next.IsNegative() {
			return nil, apperror.NewNegativeStock(fmt.Sprintf(
				"Stock cannot be negative: %s has %s, change of %s requested",
				p.Name, previous.String(), req.Quantity.String()))
		}

		result := tx.Model(&product.Product{}).
			Where("id = ? AND stock_version = ?", p.ID, p.StockVersion).
			Updates(map[string]interface{}{
				"current_stock": next,
				"stock_version": gorm.Expr("stock_version + 1"),
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update product stock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			logrus.WithFields(logrus.Fields{
				"product_id": p.ID,
				"attempt":    attempt,
				"type":       req.Type,
			}).Warn("stock version changed, retrying movement")
			continue
		}

		movement := &StockMovement{
			ProductID:     p.ID,
			InvoiceID:     req.InvoiceID,
			Type:          req.Type,
			Quantity:      req.Quantity,
			PreviousStock: previous,
			NewStock:      next,
			Reason:        req.Reason,
			Notes:         req.Notes,
			CreatedBy:     req.ActorID,
		}
		if err := tx.Create(movement).Error; err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"product_id":     p.ID,
			"type":           req.Type,
			"quantity":       req.Quantity.String(),
			"previous_stock": previous.String(),
			"new_stock":      next.String(),
		}).Debug("stock movement recorded")

		return movement, nil
	}

	return nil, apperror.NewConflict("Stock was changed by another request, please retry")
}

// RecordOpening appends the OPENING entry for a freshly created product.
// It satisfies product.StockRecorder.
func (l *Ledger) RecordOpening(tx *gorm.DB, productID uint, quantity decimal.Decimal, actorID *uint) error {
	_, err := l.RecordMovementTx(tx, MovementRequest{
		ProductID: productID,
		Type:      MovementOpening,
		Quantity:  quantity,
		Reason:    "Opening stock",
		ActorID:   actorID,
	})
	return err
}

// Reconciliation compares stored stock with the value rebuilt from the ledger
type Reconciliation struct {
	ProductID     uint            `json:"product_id"`
	StoredStock   decimal.Decimal `json:"stored_stock"`
	ReplayedStock decimal.Decimal `json:"replayed_stock"`
	Movements     int             `json:"movements"`
	Consistent    bool            `json:"consistent"`
	BrokenChainAt *uint           `json:"broken_chain_at,omitempty"`
}

// Reconcile replays a product's movements in insertion order. Each row must
// start where the previous one ended and the fold must land on the stored
// stock value.
func (l *Ledger) Reconcile(ctx context.Context, productID uint) (*Reconciliation, error) {
	db := l.db.WithContext(ctx)

	var p product.Product
	if err := db.Select("id", "current_stock").Where("id = ?", productID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Product")
		}
		return nil, fmt.Errorf("failed to read product stock: %w", err)
	}

	var movements []StockMovement
	if err := db.Where("product_id = ?", productID).Order("id ASC").Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}

	rec := &Reconciliation{
		ProductID:   productID,
		StoredStock: p.CurrentStock,
		Movements:   len(movements),
	}

	stock := decimal.Zero
	for i := range movements {
		m := movements[i]
		if !m.PreviousStock.Equal(stock) || !m.NewStock.Equal(m.PreviousStock.Add(m.Quantity)) {
			if rec.BrokenChainAt == nil {
				id := m.ID
				rec.BrokenChainAt = &id
			}
		}
		stock = stock.Add(m.Quantity)
	}

	rec.ReplayedStock = stock
	rec.Consistent = rec.BrokenChainAt == nil && stock.Equal(p.CurrentStock)
	return rec, nil
}

func validateMovement(req MovementRequest) error {
	if req.ProductID == 0 {
		return apperror.NewInvalidArgument("product id is required")
	}
	if !req.Type.IsValid() {
		return apperror.NewInvalidArgument(fmt.Sprintf("invalid movement type: %s", req.Type))
	}
	if req.Quantity.IsZero() {
		return apperror.NewInvalidArgument("quantity cannot be zero")
	}
	if !req.Quantity.Equal(req.Quantity.Truncate(QuantityPlaces)) {
		return apperror.NewInvalidArgument(fmt.Sprintf("quantity cannot have more than %d decimal places", QuantityPlaces))
	}

	switch req.Type {
	case MovementSale:
		if req.Quantity.IsPositive() {
			return apperror.NewInvalidArgument("sale quantity must be negative")
		}
	case MovementOpening, MovementPurchase, MovementReturn:
		if req.Quantity.IsNegative() {
			return apperror.NewInvalidArgument(fmt.Sprintf("%s quantity must be positive", req.Type))
		}
	}
	return nil
}
