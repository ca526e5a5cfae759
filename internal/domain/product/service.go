// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pagination"
)

// StockRecorder appends the opening ledger entry for a new product inside tx
type StockRecorder interface {
	RecordOpening(tx *gorm.DB, productID uint, quantity decimal.Decimal, actorID *uint) error
}

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  StockRecorder
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config, stock StockRecorder) *Service {
	return &Service{
		db:     db,
		config: cfg,
		stock:  stock,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	pagination.Params
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	LowStock bool   `form:"low_stock"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=255"`
	SKU            string           `json:"sku" binding:"max=100"`
	Description    string           `json:"description"`
	Category       string           `json:"category" binding:"max=100"`
	Price          decimal.Decimal  `json:"price" binding:"dgt0,dplaces=2"`
	CostPrice      *decimal.Decimal `json:"cost_price" binding:"omitempty,dgte0,dplaces=2"`
	GSTRate        decimal.Decimal  `json:"gst_rate" binding:"dgte0,dlte100,dplaces=2"`
	OpeningStock   decimal.Decimal  `json:"opening_stock" binding:"dgte0,dplaces=3"`
	LowStockAlert  *decimal.Decimal `json:"low_stock_alert" binding:"omitempty,dgte0,dplaces=3"`
	OverStockAlert *decimal.Decimal `json:"over_stock_alert" binding:"omitempty,dgte0,dplaces=3"`
	Unit           string           `json:"unit" binding:"max=20"`
	Barcode        string           `json:"barcode" binding:"max=100"`
	ImageURL       string           `json:"image_url" binding:"max=500"`
	IsActive       *bool            `json:"is_active"`
}

// UpdateRequest represents product update data.
// Stock is deliberately absent; it only moves through the ledger.
type UpdateRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
	SKU            *string          `json:"sku" binding:"omitempty,max=100"`
	Description    *string          `json:"description"`
	Category       *string          `json:"category" binding:"omitempty,max=100"`
	Price          *decimal.Decimal `json:"price" binding:"omitempty,dgt0,dplaces=2"`
	CostPrice      *decimal.Decimal `json:"cost_price" binding:"omitempty,dgte0,dplaces=2"`
	GSTRate        *decimal.Decimal `json:"gst_rate" binding:"omitempty,dgte0,dlte100,dplaces=2"`
	LowStockAlert  *decimal.Decimal `json:"low_stock_alert" binding:"omitempty,dgte0,dplaces=3"`
	OverStockAlert *decimal.Decimal `json:"over_stock_alert" binding:"omitempty,dgte0,dplaces=3"`
	Unit           *string          `json:"unit" binding:"omitempty,max=20"`
	Barcode        *string          `json:"barcode" binding:"omitempty,max=100"`
	ImageURL       *string          `json:"image_url" binding:"omitempty,max=500"`
	IsActive       *bool            `json:"is_active"`
}

// DeleteResult tells the caller whether the product row was removed or only deactivated
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ListRequest) (*pagination.Result[Product], error) {
	req.Normalize()

	var products []Product
	var total int64

	query := s.db.Model(&Product{})

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(barcode) LIKE ?", search, search, search)
	}

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.LowStock {
		query = query.Where("low_stock_alert IS NOT NULL AND current_stock <= low_stock_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := query.Order("created_at DESC, id DESC").
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return pagination.NewResult(products, req.Params, total), nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Product")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// CreateProduct creates a product and, when opening stock is positive,
// its OPENING ledger entry in the same transaction.
func (s *Service) CreateProduct(req *CreateRequest, actorID *uint) (*Product, error) {
	if !req.Price.IsPositive() {
		return nil, apperror.NewInvalidArgument("price must be greater than 0")
	}
	if req.OpeningStock.IsNegative() {
		return nil, apperror.NewInvalidArgument("opening stock cannot be negative")
	}
	if err := checkPlaces(
		placesCheck{"price", &req.Price, pricePlaces},
		placesCheck{"cost price", req.CostPrice, pricePlaces},
		placesCheck{"gst rate", &req.GSTRate, ratePlaces},
		placesCheck{"opening stock", &req.OpeningStock, quantityPlaces},
		placesCheck{"low stock alert", req.LowStockAlert, quantityPlaces},
		placesCheck{"over stock alert", req.OverStockAlert, quantityPlaces},
	); err != nil {
		return nil, err
	}

	sku := normalizeSKU(req.SKU)
	if sku != nil {
		if err := s.ensureSKUAvailable(*sku, 0); err != nil {
			return nil, err
		}
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "pcs"
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := Product{
		Name:           strings.TrimSpace(req.Name),
		SKU:            sku,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		CostPrice:      req.CostPrice,
		GSTRate:        req.GSTRate,
		OpeningStock:   req.OpeningStock,
		CurrentStock:   decimal.Zero,
		LowStockAlert:  req.LowStockAlert,
		OverStockAlert: req.OverStockAlert,
		Unit:           unit,
		Barcode:        req.Barcode,
		ImageURL:       req.ImageURL,
		IsActive:       isActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if req.OpeningStock.IsPositive() && s.stock != nil {
			if err := s.stock.RecordOpening(tx, product.ID, req.OpeningStock, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(product.ID)
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *UpdateRequest) (*Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := checkPlaces(
		placesCheck{"price", req.Price, pricePlaces},
		placesCheck{"cost price", req.CostPrice, pricePlaces},
		placesCheck{"gst rate", req.GSTRate, ratePlaces},
		placesCheck{"low stock alert", req.LowStockAlert, quantityPlaces},
		placesCheck{"over stock alert", req.OverStockAlert, quantityPlaces},
	); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		sku := normalizeSKU(*req.SKU)
		if sku != nil {
			if err := s.ensureSKUAvailable(*sku, id); err != nil {
				return nil, err
			}
		}
		updates["sku"] = sku
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, apperror.NewInvalidArgument("price must be greater than 0")
		}
		updates["price"] = *req.Price
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.GSTRate != nil {
		updates["gst_rate"] = *req.GSTRate
	}
	if req.LowStockAlert != nil {
		updates["low_stock_alert"] = *req.LowStockAlert
	}
	if req.OverStockAlert != nil {
		updates["over_stock_alert"] = *req.OverStockAlert
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct removes a product that has never been sold. A product with
// invoice history is deactivated instead so past invoices stay intact.
func (s *Service) DeleteProduct(id uint) (*DeleteResult, error) {
	if _, err := s.GetProduct(id); err != nil {
		return nil, err
	}

	var referenced int64
	if err := s.db.Table("invoice_items").Where("product_id = ?", id).Count(&referenced).Error; err != nil {
		return nil, fmt.Errorf("failed to check invoice history: %w", err)
	}

	if referenced > 0 {
		if err := s.db.Model(&Product{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("failed to deactivate product: %w", err)
		}
		return &DeleteResult{Deactivated: true}, nil
	}

	if err := s.db.Where("id = ?", id).Delete(&Product{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return &DeleteResult{Deleted: true}, nil
}

// GetCategories lists the distinct categories in use
func (s *Service) GetCategories() ([]string, error) {
	var categories []string
	if err := s.db.Model(&Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

func (s *Service) ensureSKUAvailable(sku string, exceptID uint) error {
	query := s.db.Model(&Product{}).Where("sku = ?", sku)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check sku: %w", err)
	}
	if count > 0 {
		return apperror.NewConflict("SKU already exists")
	}
	return nil
}

// Column scales for prices, rates and stock quantities
const (
	pricePlaces    = 2
	ratePlaces     = 2
	quantityPlaces = 3
)

type placesCheck struct {
	field  string
	value  *decimal.Decimal
	places int32
}

func checkPlaces(checks ...placesCheck) error {
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if !c.value.Equal(c.value.Truncate(c.places)) {
			return apperror.NewInvalidArgument(fmt.Sprintf("%s cannot have more than %d decimal places", c.field, c.places))
		}
	}
	return nil
}

func normalizeSKU(sku string) *string {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil
	}
	return &sku
}
