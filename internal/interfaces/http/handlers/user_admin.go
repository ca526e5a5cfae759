// internal/interfaces/http/handlers/user_admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/user"
)

// StaffHandler lets the owner manage counter staff accounts
type StaffHandler struct {
	userService *user.Service
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(users *user.Service) *StaffHandler {
	return &StaffHandler{userService: users}
}

// GetStaff handles GET /staff
func (h *StaffHandler) GetStaff(c *gin.Context) {
	staff, err := h.userService.GetStaff()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Staff retrieved successfully", staff)
}

// CreateStaff handles POST /staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req user.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	staff, err := h.userService.CreateStaff(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Staff created successfully", staff)
}

// UpdateStaff handles PUT /staff/:id
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	var req user.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	staff, err := h.userService.UpdateStaff(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Staff updated successfully", staff)
}

// DeleteStaff handles DELETE /staff/:id
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	id, ok := parseID(c, "id", "staff")
	if !ok {
		return
	}

	if err := h.userService.DeleteStaff(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Staff deleted successfully", nil)
}
