// internal/domain/user/staff_service.go
package user

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/auth"
)

// CreateStaffRequest represents staff creation data
type CreateStaffRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
}

// UpdateStaffRequest represents staff update data
type UpdateStaffRequest struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
}

// GetStaff lists staff accounts, newest first
func (s *Service) GetStaff() ([]User, error) {
	var staff []User
	if err := s.db.Where("role = ?", auth.RoleStaff).
		Order("created_at DESC, id DESC").
		Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve staff: %w", err)
	}
	if staff == nil {
		staff = []User{}
	}
	return staff, nil
}

// CreateStaff adds a staff account
func (s *Service) CreateStaff(req *CreateStaffRequest) (*User, error) {
	return s.create(s.db, req.Email, req.Password, req.Name, auth.RoleStaff)
}

// UpdateStaff changes a staff member's name, email or password
func (s *Service) UpdateStaff(id uint, req *UpdateStaffRequest) (*User, error) {
	staff, err := s.findStaff(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var taken int64
		if err := s.db.Model(&User{}).Where("email = ? AND id <> ?", email, id).Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken > 0 {
			return nil, apperror.NewConflict("User already exists")
		}
		updates["email"] = email
	}
	if req.Password != nil {
		hashed, err := s.passwordManager.HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.NewInvalidArgument(err.Error())
		}
		updates["password"] = hashed
	}

	if len(updates) > 0 {
		if err := s.db.Model(staff).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update staff: %w", err)
		}
	}

	return s.findStaff(id)
}

// DeleteStaff removes a staff account
func (s *Service) DeleteStaff(id uint) error {
	if _, err := s.findStaff(id); err != nil {
		return err
	}
	if err := s.db.Where("id = ?", id).Delete(&User{}).Error; err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	return nil
}

func (s *Service) findStaff(id uint) (*User, error) {
	var staff User
	if err := s.db.Where("id = ? AND role = ?", id, auth.RoleStaff).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Staff")
		}
		return nil, fmt.Errorf("failed to retrieve staff: %w", err)
	}
	return &staff, nil
}
