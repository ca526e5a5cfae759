// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pagination"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

// Service handles stock adjustments, history and alerts
type Service struct {
	db     *gorm.DB
	config *config.Config
	ledger *Ledger
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config, ledger *Ledger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		ledger: ledger,
	}
}

// AdjustRequest represents a manual stock change
type AdjustRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,dplaces=3"`
	Type      MovementType    `json:"type" binding:"required,oneof=PURCHASE ADJUSTMENT RETURN"`
	Reason    string          `json:"reason" binding:"max=255"`
	Notes     string          `json:"notes"`
}

// HistoryRequest represents stock history query parameters
type HistoryRequest struct {
	pagination.Params
	ProductID uint   `form:"product_id"`
	Type      string `form:"type"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// Alerts lists active products outside their configured stock band
type Alerts struct {
	LowStock  []product.Product `json:"low_stock"`
	OverStock []product.Product `json:"over_stock"`
}

// Prediction is the projected stock need of one product
type Prediction struct {
	ProductID         uint             `json:"product_id"`
	ProductName       string           `json:"product_name"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	AverageDailySales decimal.Decimal  `json:"average_daily_sales"`
	DaysUntilStockout *decimal.Decimal `json:"days_until_stockout"`
	ProjectedDemand30 decimal.Decimal  `json:"projected_demand_30"`
	ProjectedDemand90 decimal.Decimal  `json:"projected_demand_90"`
	StockNeeded30     decimal.Decimal  `json:"stock_needed_30"`
	StockNeeded90     decimal.Decimal  `json:"stock_needed_90"`
	Period            int              `json:"period"`
}

// AdjustStock applies a manual PURCHASE, ADJUSTMENT or RETURN
func (s *Service) AdjustStock(ctx context.Context, req *AdjustRequest, actorID *uint) (*StockMovement, error) {
	switch req.Type {
	case MovementPurchase, MovementAdjustment, MovementReturn:
	default:
		return nil, apperror.NewInvalidArgument("type must be one of PURCHASE, ADJUSTMENT, RETURN")
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = fmt.Sprintf("%s adjustment", req.Type)
	}

	return s.ledger.RecordMovement(ctx, MovementRequest{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    reason,
		Notes:     req.Notes,
		ActorID:   actorID,
	})
}

// GetHistory retrieves stock movements with filtering and pagination
func (s *Service) GetHistory(req *HistoryRequest) (*pagination.Result[StockMovement], error) {
	req.Normalize()

	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&StockMovement{})

	if req.ProductID > 0 {
		query = query.Where("stock_movements.product_id = ?", req.ProductID)
	}
	if req.Type != "" {
		t := MovementType(strings.ToUpper(req.Type))
		if !t.IsValid() {
			return nil, apperror.NewInvalidArgument(fmt.Sprintf("invalid movement type: %s", req.Type))
		}
		query = query.Where("stock_movements.type = ?", t)
	}
	if dates.From != nil {
		query = query.Where("stock_movements.created_at >= ?", *dates.From)
	}
	if dates.To != nil {
		query = query.Where("stock_movements.created_at < ?", *dates.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock movements: %w", err)
	}

	var movements []StockMovement
	if err := query.
		Select("stock_movements.*, products.name AS product_name, COALESCE(products.sku, '') AS product_sku, COALESCE(invoices.invoice_number, '') AS invoice_number").
		Joins("LEFT JOIN products ON products.id = stock_movements.product_id").
		Joins("LEFT JOIN invoices ON invoices.id = stock_movements.invoice_id").
		Order("stock_movements.created_at DESC, stock_movements.id DESC").
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}

	return pagination.NewResult(movements, req.Params, total), nil
}

// GetRecentMovements returns the latest movements of one product
func (s *Service) GetRecentMovements(productID uint, limit int) ([]StockMovement, error) {
	var movements []StockMovement
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	if movements == nil {
		movements = []StockMovement{}
	}
	return movements, nil
}

// GetAlerts lists active products at or below their low mark and at or
// above their high mark
func (s *Service) GetAlerts() (*Alerts, error) {
	var products []product.Product
	if err := s.db.Where("is_active = ?", true).
		Where("low_stock_alert IS NOT NULL OR over_stock_alert IS NOT NULL").
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	alerts := &Alerts{
		LowStock:  []product.Product{},
		OverStock: []product.Product{},
	}
	for _, p := range products {
		if p.IsLowStock() {
			alerts.LowStock = append(alerts.LowStock, p)
		}
		if p.IsOverStock() {
			alerts.OverStock = append(alerts.OverStock, p)
		}
	}
	return alerts, nil
}

// Predict projects stock needs from average daily sales over the last
// days. With productID nil every active product is included, soonest
// stockout first.
func (s *Service) Predict(productID *uint, days int) ([]Prediction, error) {
	if days <= 0 {
		days = s.config.Checkout.PredictionWindowDays
	}
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var products []product.Product
	query := s.db.Model(&product.Product{})
	if productID != nil {
		query = query.Where("id = ?", *productID)
	} else {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	if productID != nil && len(products) == 0 {
		return nil, apperror.NewNotFound("Product")
	}

	var sales []StockMovement
	salesQuery := s.db.Select("product_id", "quantity").
		Where("type = ? AND created_at >= ?", MovementSale, since)
	if productID != nil {
		salesQuery = salesQuery.Where("product_id = ?", *productID)
	}
	if err := salesQuery.Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales movements: %w", err)
	}

	sold := make(map[uint]decimal.Decimal)
	for _, m := range sales {
		sold[m.ProductID] = sold[m.ProductID].Add(m.Quantity)
	}

	predictions := make([]Prediction, 0, len(products))
	for _, p := range products {
		predictions = append(predictions, predict(p, sold[p.ID].Abs(), days))
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		a, b := predictions[i].DaysUntilStockout, predictions[j].DaysUntilStockout
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.LessThan(*b)
		}
	})

	return predictions, nil
}

// GetProductStock returns a product's current level for display
func (s *Service) GetProductStock(productID uint) (*product.Product, error) {
	var p product.Product
	if err := s.db.Where("id = ?", productID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// Reconcile checks that a product's ledger replays to its stored stock
func (s *Service) Reconcile(ctx context.Context, productID uint) (*Reconciliation, error) {
	return s.ledger.Reconcile(ctx, productID)
}

func predict(p product.Product, sold decimal.Decimal, days int) Prediction {
	period := decimal.NewFromInt(int64(days))
	avg := sold.Div(period)

	demand30 := avg.Mul(decimal.NewFromInt(30))
	demand90 := avg.Mul(decimal.NewFromInt(90))

	pred := Prediction{
		ProductID:         p.ID,
		ProductName:       p.Name,
		CurrentStock:      p.CurrentStock,
		AverageDailySales: avg.Round(2),
		ProjectedDemand30: demand30.Round(0),
		ProjectedDemand90: demand90.Round(0),
		StockNeeded30:     decimal.Max(decimal.Zero, demand30.Sub(p.CurrentStock)).Ceil(),
		StockNeeded90:     decimal.Max(decimal.Zero, demand90.Sub(p.CurrentStock)).Ceil(),
		Period:            days,
	}

	if avg.IsPositive() {
		until := p.CurrentStock.Div(avg).Round(1)
		pred.DaysUntilStockout = &until
	}

	return pred
}
