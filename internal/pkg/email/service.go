// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
)

var defaultEndpoints = map[string]string{
	ProviderResend:     "https://api.resend.com/emails",
	ProviderSendGrid:   "https://api.sendgrid.com/v3/mail/send",
	ProviderMailerSend: "https://api.mailersend.com/v1/email",
}

// EmailService handles all email operations
type EmailService struct {
	config    *config.Config
	templates map[string]*template.Template
	client    *http.Client
	endpoints map[string]string
}

// Option customises an EmailService
type Option func(*EmailService)

// WithHTTPClient replaces the client used for API providers
func WithHTTPClient(client *http.Client) Option {
	return func(s *EmailService) {
		s.client = client
	}
}

// WithEndpoint overrides the API URL of a provider
func WithEndpoint(provider, url string) Option {
	return func(s *EmailService) {
		s.endpoints[provider] = url
	}
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, opts ...Option) *EmailService {
	service := &EmailService{
		config:    cfg,
		templates: make(map[string]*template.Template),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoints: make(map[string]string, len(defaultEndpoints)),
	}
	for provider, url := range defaultEndpoints {
		service.endpoints[provider] = url
	}
	for _, opt := range opts {
		opt(service)
	}

	service.loadTemplates()

	return service
}

// Enabled reports whether a delivery provider is configured
func (s *EmailService) Enabled() bool {
	provider := s.config.Email.Provider
	return provider != "" && provider != ProviderNone
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	var err error
	switch s.config.Email.Provider {
	case ProviderSMTP:
		err = s.sendSMTPEmail(email)
	case ProviderResend:
		err = s.sendResendEmail(ctx, email)
	case ProviderSendGrid:
		err = s.sendSendGridEmail(ctx, email)
	case ProviderMailerSend:
		err = s.sendMailerSendEmail(ctx, email)
	case "", ProviderNone:
		return apperror.NewInvalidArgument("Email delivery is not configured")
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.Email.Provider)
	}

	fields := logrus.Fields{
		"provider": s.config.Email.Provider,
		"type":     email.Type,
		"to":       strings.Join(email.To, ","),
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Error("email delivery failed")
		return err
	}
	logrus.WithFields(fields).Info("email sent")
	return nil
}

// SendInvoiceEmail mails an invoice summary to the customer on the invoice
func (s *EmailService) SendInvoiceEmail(ctx context.Context, inv *invoice.Invoice) error {
	to := strings.TrimSpace(inv.CustomerEmail)
	if to == "" {
		return apperror.NewInvalidArgument("Customer email is missing on this invoice")
	}

	htmlContent, err := s.RenderInvoice(inv)
	if err != nil {
		return err
	}

	email := &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("Invoice %s from %s", inv.InvoiceNumber, s.config.Store.Name),
		HTMLContent: htmlContent,
		Type:        EmailTypeInvoice,
		Data: map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"total":          inv.Total.StringFixed(2),
		},
	}

	return s.SendEmail(ctx, email)
}

// RenderInvoice renders the invoice email body
func (s *EmailService) RenderInvoice(inv *invoice.Invoice) (string, error) {
	data := InvoiceEmailData{
		EmailTemplateData: GetBaseTemplateData(
			s.config.Store.Name,
			s.config.Store.Email,
			s.config.Store.Phone,
			s.config.Store.CurrencySymbol,
		),
		CustomerName:  inv.CustomerName,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.CreatedAt.In(time.Local).Format("January 2, 2006"),
		PaymentMethod: inv.PaymentMethod,
		Subtotal:      inv.Subtotal.StringFixed(2),
		TotalGST:      inv.TotalGST.StringFixed(2),
		Discount:      inv.Discount.StringFixed(2),
		HasDiscount:   inv.Discount.IsPositive(),
		Total:         inv.Total.StringFixed(2),
	}
	for _, item := range inv.Items {
		data.Items = append(data.Items, InvoiceLine{
			Name:     item.ProductName,
			Quantity: item.Quantity.String(),
			Price:    item.UnitPrice.StringFixed(2),
			Total:    item.Total.StringFixed(2),
		})
	}

	htmlContent, err := s.renderTemplate("invoice", data)
	if err != nil {
		return "", fmt.Errorf("failed to render invoice email template: %w", err)
	}
	return htmlContent, nil
}

// loadTemplates parses the built-in email templates
func (s *EmailService) loadTemplates() {
	s.templates["invoice"] = template.Must(template.New("invoice").Parse(invoiceEmailTemplate))
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

func (s *EmailService) fromAddress() string {
	fromEmail := s.config.Email.FromEmail
	if fromName := s.config.Email.FromName; fromName != "" {
		return fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return fromEmail
}

const invoiceEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
</head>
<body style="font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f4f4f4;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 20px; border-radius: 8px;">
        <h1 style="color: #333;">{{.StoreName}}</h1>
        <p>Hello {{.CustomerName}},</p>
        <p>Thank you for shopping with us. Here is your invoice <strong>{{.InvoiceNumber}}</strong> dated {{.InvoiceDate}}.</p>
        <table style="width: 100%; border-collapse: collapse;">
            <tr>
                <th style="text-align: left; border-bottom: 1px solid #ddd; padding: 6px;">Item</th>
                <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 6px;">Qty</th>
                <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 6px;">Price</th>
                <th style="text-align: right; border-bottom: 1px solid #ddd; padding: 6px;">Total</th>
            </tr>
            {{range .Items}}
            <tr>
                <td style="padding: 6px;">{{.Name}}</td>
                <td style="text-align: right; padding: 6px;">{{.Quantity}}</td>
                <td style="text-align: right; padding: 6px;">{{$.Currency}}{{.Price}}</td>
                <td style="text-align: right; padding: 6px;">{{$.Currency}}{{.Total}}</td>
            </tr>
            {{end}}
        </table>
        <p style="text-align: right;">Subtotal: {{.Currency}}{{.Subtotal}}<br>
        GST: {{.Currency}}{{.TotalGST}}<br>
        {{if .HasDiscount}}Discount: -{{.Currency}}{{.Discount}}<br>{{end}}
        <strong>Total: {{.Currency}}{{.Total}}</strong></p>
        <p>Paid by {{.PaymentMethod}}.</p>
        <hr>
        <p style="font-size: 12px; color: #666;">
            © {{.Year}} {{.StoreName}}{{if .StorePhone}} · {{.StorePhone}}{{end}}{{if .StoreEmail}} · {{.StoreEmail}}{{end}}
        </p>
    </div>
</body>
</html>`
