// internal/domain/reminder/service.go
package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

// Service handles reminder business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new reminder service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListRequest represents reminder list filters
type ListRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED"`
	Type       string `form:"type" binding:"omitempty,oneof=GENERAL CUSTOMER"`
	CustomerID *uint  `form:"customer_id"`
}

// CreateRequest represents reminder creation data
type CreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description"`
	Type        string `json:"type" binding:"omitempty,oneof=GENERAL CUSTOMER"`
	DueDate     string `json:"due_date"`
	CustomerID  *uint  `json:"customer_id"`
}

// UpdateRequest represents reminder update data
type UpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=PENDING COMPLETED"`
	DueDate     *string `json:"due_date"`
}

// GetReminders lists reminders, soonest due first; undated ones go last
func (s *Service) GetReminders(req *ListRequest) ([]Reminder, error) {
	query := s.db.Model(&Reminder{}).Preload("Customer")

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.CustomerID != nil {
		query = query.Where("customer_id = ?", *req.CustomerID)
	}

	var reminders []Reminder
	if err := query.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC, created_at DESC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reminders: %w", err)
	}
	if reminders == nil {
		reminders = []Reminder{}
	}
	return reminders, nil
}

// GetReminder retrieves a reminder by ID
func (s *Service) GetReminder(id uint) (*Reminder, error) {
	var reminder Reminder
	if err := s.db.Preload("Customer").Where("id = ?", id).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Reminder")
		}
		return nil, fmt.Errorf("failed to retrieve reminder: %w", err)
	}
	return &reminder, nil
}

// CreateReminder creates a pending reminder
func (s *Service) CreateReminder(req *CreateRequest) (*Reminder, error) {
	reminderType := TypeGeneral
	if req.Type != "" {
		reminderType = Type(req.Type)
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		var count int64
		if err := s.db.Model(&customer.Customer{}).Where("id = ?", *req.CustomerID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check customer: %w", err)
		}
		if count == 0 {
			return nil, apperror.NewNotFound("Customer")
		}
	}

	reminder := Reminder{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        reminderType,
		Status:      StatusPending,
		DueDate:     dueDate,
		CustomerID:  req.CustomerID,
	}
	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	return s.GetReminder(reminder.ID)
}

// UpdateReminder changes a reminder's details or marks it done
func (s *Service) UpdateReminder(id uint, req *UpdateRequest) (*Reminder, error) {
	reminder, err := s.GetReminder(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = Status(*req.Status)
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(reminder).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update reminder: %w", err)
		}
	}

	return s.GetReminder(id)
}

// DeleteReminder removes a reminder
func (s *Service) DeleteReminder(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Reminder{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reminder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewNotFound("Reminder")
	}
	return nil
}

// CountPending returns the number of open reminders
func (s *Service) CountPending() (int64, error) {
	var count int64
	if err := s.db.Model(&Reminder{}).Where("status = ?", StatusPending).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reminders: %w", err)
	}
	return count, nil
}

// parseDueDate accepts a plain date or an RFC3339 timestamp
func parseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(timeutil.DateLayout, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperror.NewInvalidArgument("due_date must be YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}
