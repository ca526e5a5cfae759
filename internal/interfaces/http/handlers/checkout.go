// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/checkout"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/middleware"
)

// CheckoutHandler turns a counter cart into an invoice
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkouts *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkouts}
}

// Checkout handles POST /invoices
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	inv, err := h.checkoutService.Checkout(c.Request.Context(), &req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Invoice created successfully", inv)
}
