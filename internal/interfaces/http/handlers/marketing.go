// internal/interfaces/http/handlers/marketing.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/marketing"
)

// MarketingHandler renders WhatsApp message templates
type MarketingHandler struct {
	marketingService *marketing.Service
}

// NewMarketingHandler creates a new marketing handler
func NewMarketingHandler(svc *marketing.Service) *MarketingHandler {
	return &MarketingHandler{marketingService: svc}
}

// GetTemplates handles GET /marketing/templates
func (h *MarketingHandler) GetTemplates(c *gin.Context) {
	respondOK(c, "Templates retrieved successfully", h.marketingService.GetTemplates())
}

// Render handles POST /marketing/render
func (h *MarketingHandler) Render(c *gin.Context) {
	var req marketing.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.marketingService.Render(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Message rendered successfully", result)
}

// Broadcast handles POST /marketing/broadcast
func (h *MarketingHandler) Broadcast(c *gin.Context) {
	var req marketing.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.marketingService.Broadcast(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Broadcast prepared successfully", result)
}
