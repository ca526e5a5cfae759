// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
)

// InvoiceRenderer produces the printable invoice
type InvoiceRenderer interface {
	GenerateInvoice(inv *invoice.Invoice) (*bytes.Buffer, error)
}

// InvoiceMailer delivers an invoice to its customer
type InvoiceMailer interface {
	SendInvoiceEmail(ctx context.Context, inv *invoice.Invoice) error
}

// InvoiceHandler handles invoice read, print and mail endpoints
type InvoiceHandler struct {
	invoiceService *invoice.Service
	renderer       InvoiceRenderer
	mailer         InvoiceMailer
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices *invoice.Service, renderer InvoiceRenderer, mailer InvoiceMailer) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoices,
		renderer:       renderer,
		mailer:         mailer,
	}
}

// EmailInvoiceRequest optionally redirects the invoice to another address
type EmailInvoiceRequest struct {
	Email string `json:"email" binding:"omitempty,email,max=255"`
}

// GetInvoices handles GET /invoices
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	var req invoice.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.invoiceService.GetInvoices(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Invoices retrieved successfully", response)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Invoice retrieved successfully", inv)
}

// DownloadPDF handles GET /invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}

	buf, err := h.renderer.GenerateInvoice(inv)
	if err != nil {
		respondError(c, err)
		return
	}

	attachment(c, "application/pdf", inv.InvoiceNumber+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// SendEmail handles POST /invoices/:id/email
func (h *InvoiceHandler) SendEmail(c *gin.Context) {
	id, ok := parseID(c, "id", "invoice")
	if !ok {
		return
	}

	var req EmailInvoiceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	inv, err := h.invoiceService.GetInvoice(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Redirecting changes only this delivery; the stored snapshot stays.
	if email := strings.TrimSpace(req.Email); email != "" {
		inv.CustomerEmail = email
	}

	if err := h.mailer.SendInvoiceEmail(c.Request.Context(), inv); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Invoice emailed successfully", gin.H{
		"invoice_number": inv.InvoiceNumber,
		"email":          inv.CustomerEmail,
	})
}
