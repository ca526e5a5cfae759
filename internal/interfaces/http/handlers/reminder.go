// internal/interfaces/http/handlers/reminder.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/reminder"
)

// ReminderHandler handles reminder endpoints
type ReminderHandler struct {
	reminderService *reminder.Service
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders *reminder.Service) *ReminderHandler {
	return &ReminderHandler{reminderService: reminders}
}

// GetReminders handles GET /reminders
func (h *ReminderHandler) GetReminders(c *gin.Context) {
	var req reminder.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reminders, err := h.reminderService.GetReminders(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Reminders retrieved successfully", reminders)
}

// CreateReminder handles POST /reminders
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	var req reminder.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	r, err := h.reminderService.CreateReminder(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Reminder created successfully", r)
}

// UpdateReminder handles PUT /reminders/:id
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	id, ok := parseID(c, "id", "reminder")
	if !ok {
		return
	}

	var req reminder.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	r, err := h.reminderService.UpdateReminder(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Reminder updated successfully", r)
}

// DeleteReminder handles DELETE /reminders/:id
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	id, ok := parseID(c, "id", "reminder")
	if !ok {
		return
	}

	if err := h.reminderService.DeleteReminder(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Reminder deleted successfully", nil)
}
