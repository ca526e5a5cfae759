// internal/interfaces/http/handlers/customer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
)

const recentInvoiceLimit = 10

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	customerService *customer.Service
	invoiceService  *invoice.Service
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *customer.Service, invoices *invoice.Service) *CustomerHandler {
	return &CustomerHandler{
		customerService: customers,
		invoiceService:  invoices,
	}
}

// GetCustomers handles GET /customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var req customer.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.customerService.GetCustomers(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Customers retrieved successfully", response)
}

// GetCustomer handles GET /customers/:id with the invoice count and the
// latest invoices
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	summary, err := h.customerService.GetCustomerSummary(id)
	if err != nil {
		respondError(c, err)
		return
	}

	invoices, err := h.invoiceService.GetRecentForCustomer(id, recentInvoiceLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Customer retrieved successfully", gin.H{
		"customer":        summary,
		"recent_invoices": invoices,
	})
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req customer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cust, err := h.customerService.CreateCustomer(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Customer created successfully", cust)
}

// UpdateCustomer handles PUT /customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req customer.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cust, err := h.customerService.UpdateCustomer(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Customer updated successfully", cust)
}

// DeleteCustomer handles DELETE /customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Customer deleted successfully", nil)
}
