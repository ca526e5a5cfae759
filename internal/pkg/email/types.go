// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeInvoice EmailType = "invoice"
	EmailTypeTest    EmailType = "test"
)

// Supported delivery providers
const (
	ProviderSMTP       = "smtp"
	ProviderResend     = "resend"
	ProviderSendGrid   = "sendgrid"
	ProviderMailerSend = "mailersend"
	ProviderNone       = "none"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	StoreName  string `json:"store_name"`
	StoreEmail string `json:"store_email"`
	StorePhone string `json:"store_phone"`
	Currency   string `json:"currency"`
	Year       int    `json:"year"`
}

// InvoiceLine is one row of the emailed invoice summary
type InvoiceLine struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// InvoiceEmailData contains data for the invoice email
type InvoiceEmailData struct {
	EmailTemplateData
	CustomerName  string        `json:"customer_name"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	PaymentMethod string        `json:"payment_method"`
	Items         []InvoiceLine `json:"items"`
	Subtotal      string        `json:"subtotal"`
	TotalGST      string        `json:"total_gst"`
	Discount      string        `json:"discount"`
	HasDiscount   bool          `json:"has_discount"`
	Total         string        `json:"total"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(storeName, storeEmail, storePhone, currency string) EmailTemplateData {
	return EmailTemplateData{
		StoreName:  storeName,
		StoreEmail: storeEmail,
		StorePhone: storePhone,
		Currency:   currency,
		Year:       time.Now().Year(),
	}
}
