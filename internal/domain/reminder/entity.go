// internal/domain/reminder/entity.go
package reminder

import (
	"time"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
)

// Type separates shop-wide reminders from customer follow-ups
type Type string

const (
	TypeGeneral  Type = "GENERAL"
	TypeCustomer Type = "CUSTOMER"
)

// Status tracks whether a reminder still needs action
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// Reminder is a to-do for the shop, optionally tied to a customer
type Reminder struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"not null;size:255" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Type        Type               `gorm:"not null;size:20;index" json:"type"`
	Status      Status             `gorm:"not null;size:20;index" json:"status"`
	DueDate     *time.Time         `gorm:"index" json:"due_date"`
	CustomerID  *uint              `gorm:"index" json:"customer_id"`
	Customer    *customer.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TableName overrides the table name for Reminder
func (Reminder) TableName() string {
	return "reminders"
}
