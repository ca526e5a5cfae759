// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/pagination"
)

// Service handles customer business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents customer list query parameters
type ListRequest struct {
	pagination.Params
	Search string `form:"search"`
}

// CreateRequest represents customer creation data
type CreateRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Phone   string `json:"phone" binding:"max=20"`
	Address string `json:"address"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	Pincode string `json:"pincode" binding:"max=10"`
	GSTIN   string `json:"gstin" binding:"max=15"`
}

// UpdateRequest represents customer update data
type UpdateRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email   *string `json:"email" binding:"omitempty,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Address *string `json:"address"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	Pincode *string `json:"pincode" binding:"omitempty,max=10"`
	GSTIN   *string `json:"gstin" binding:"omitempty,max=15"`
}

// Summary is a customer with its invoice count
type Summary struct {
	Customer
	InvoiceCount int64 `json:"invoice_count"`
}

// GetCustomers retrieves customers with search and pagination
func (s *Service) GetCustomers(req *ListRequest) (*pagination.Result[Customer], error) {
	req.Normalize()

	var customers []Customer
	var total int64

	query := s.db.Model(&Customer{})

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if err := query.Order("created_at DESC, id DESC").
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}

	return pagination.NewResult(customers, req.Params, total), nil
}

// GetCustomer retrieves a single customer by ID
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	return s.FindByID(s.db, id)
}

// GetCustomerSummary retrieves a customer together with its invoice count
func (s *Service) GetCustomerSummary(id uint) (*Summary, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Table("invoices").Where("customer_id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	return &Summary{Customer: *customer, InvoiceCount: count}, nil
}

// FindByID loads a customer using db, which may be a transaction
func (s *Service) FindByID(db *gorm.DB, id uint) (*Customer, error) {
	var customer Customer
	if err := db.Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Customer")
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return &customer, nil
}

// FindByPhone returns the earliest created customer with the given phone.
// Ties on created_at are broken by id.
func (s *Service) FindByPhone(db *gorm.DB, phone string) (*Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperror.NewInvalidArgument("phone is required")
	}

	var customer Customer
	if err := db.Where("phone = ?", phone).
		Order("created_at ASC, id ASC").
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Customer")
		}
		return nil, fmt.Errorf("failed to look up customer by phone: %w", err)
	}
	return &customer, nil
}

// CreateCustomer creates a new customer
func (s *Service) CreateCustomer(req *CreateRequest) (*Customer, error) {
	return s.Create(s.db, req)
}

// Create inserts a customer using db, which may be a transaction
func (s *Service) Create(db *gorm.DB, req *CreateRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.NewInvalidArgument("customer name is required")
	}

	customer := &Customer{
		Name:    name,
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		GSTIN:   strings.ToUpper(strings.TrimSpace(req.GSTIN)),
	}

	if err := db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// UpdateCustomer updates an existing customer
func (s *Service) UpdateCustomer(id uint, req *UpdateRequest) (*Customer, error) {
	customer, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.NewInvalidArgument("customer name is required")
		}
		updates["name"] = name
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Pincode != nil {
		updates["pincode"] = *req.Pincode
	}
	if req.GSTIN != nil {
		updates["gstin"] = strings.ToUpper(strings.TrimSpace(*req.GSTIN))
	}

	if len(updates) > 0 {
		if err := s.db.Model(customer).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	return s.GetCustomer(id)
}

// DeleteCustomer removes a customer. Invoices and reminders that point at it
// are unlinked in the same transaction; invoices keep their snapshot fields.
func (s *Service) DeleteCustomer(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.FindByID(tx, id); err != nil {
			return err
		}

		for _, table := range []string{"invoices", "reminders"} {
			if err := tx.Table(table).Where("customer_id = ?", id).Update("customer_id", nil).Error; err != nil {
				return fmt.Errorf("failed to unlink %s: %w", table, err)
			}
		}

		if err := tx.Where("id = ?", id).Delete(&Customer{}).Error; err != nil {
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return nil
	})
}

// CountCustomers returns the number of customers on file
func (s *Service) CountCustomers() (int64, error) {
	var count int64
	if err := s.db.Model(&Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
