// internal/domain/customer/entity.go
package customer

import "time"

// Customer represents a buyer record. Phone is not unique.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Phone     string    `gorm:"size:20;index" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	State     string    `gorm:"size:100" json:"state"`
	Pincode   string    `gorm:"size:10" json:"pincode"`
	GSTIN     string    `gorm:"column:gstin;size:15" json:"gstin"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}
