// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/auth"
)

// User is a person who can sign in to the till
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	Name        string     `gorm:"not null;size:255" json:"name"`
	Role        string     `gorm:"not null;size:20;index" json:"role"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// IsOwner reports whether the user holds the owner role
func (u *User) IsOwner() bool {
	return u.Role == auth.RoleOwner
}
