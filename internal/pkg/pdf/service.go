// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"qty":   func(d decimal.Decimal) string { return d.String() },
}).Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders an invoice to PDF through wkhtmltopdf
func (s *Service) GenerateInvoice(inv *invoice.Invoice) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML renders the printable invoice page
func (s *Service) RenderHTML(inv *invoice.Invoice) (string, error) {
	data := InvoiceData{
		Invoice:     inv,
		InvoiceDate: inv.CreatedAt.In(time.Local).Format("January 2, 2006 3:04 PM"),
		Currency:    s.config.Store.CurrencySymbol,
		Store: StoreInfo{
			Name:    s.config.Store.Name,
			GSTIN:   s.config.Store.GSTIN,
			Address: s.config.Store.Address,
			Phone:   s.config.Store.Phone,
			Email:   s.config.Store.Email,
		},
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	Invoice     *invoice.Invoice
	InvoiceDate string
	Currency    string
	Store       StoreInfo
}

// StoreInfo is the seller block printed on the invoice
type StoreInfo struct {
	Name    string
	GSTIN   string
	Address string
	Phone   string
	Email   string
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.Invoice.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .invoice-info {
            text-align: right;
            flex: 1;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .invoice-details {
            margin-bottom: 30px;
        }
        .invoice-details table {
            width: 100%;
        }
        .invoice-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .invoice-details .label {
            font-weight: bold;
            width: 150px;
        }
        .bill-to {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .num {
            text-align: right;
            width: 80px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Store.Name}}</h1>
            {{if .Store.Address}}<p>{{.Store.Address}}</p>{{end}}
            {{if .Store.Phone}}<p>Phone: {{.Store.Phone}}</p>{{end}}
            {{if .Store.Email}}<p>Email: {{.Store.Email}}</p>{{end}}
            {{if .Store.GSTIN}}<p>GSTIN: {{.Store.GSTIN}}</p>{{end}}
        </div>
        <div class="invoice-info">
            <div class="invoice-title">TAX INVOICE</div>
            <p><strong>Invoice #:</strong> {{.Invoice.InvoiceNumber}}</p>
            <p><strong>Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Payment:</strong> {{.Invoice.PaymentMethod}}</p>
        </div>
    </div>

    <div class="bill-to">
        <div class="section-title">Bill To:</div>
        <p><strong>{{.Invoice.CustomerName}}</strong></p>
        {{if .Invoice.CustomerAddress}}<p>{{.Invoice.CustomerAddress}}</p>{{end}}
        {{if .Invoice.CustomerPhone}}<p>Phone: {{.Invoice.CustomerPhone}}</p>{{end}}
        {{if .Invoice.CustomerEmail}}<p>Email: {{.Invoice.CustomerEmail}}</p>{{end}}
        {{if .Invoice.CustomerGSTIN}}<p>GSTIN: {{.Invoice.CustomerGSTIN}}</p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Rate</th>
                <th class="num">GST %</th>
                <th class="num">CGST</th>
                <th class="num">SGST</th>
                <th class="num">Amount</th>
            </tr>
        </thead>
        <tbody>
            {{range .Invoice.Items}}
            <tr>
                <td><strong>{{.ProductName}}</strong></td>
                <td class="num">{{qty .Quantity}}</td>
                <td class="num">{{$.Currency}}{{money .UnitPrice}}</td>
                <td class="num">{{qty .GSTRate}}</td>
                <td class="num">{{$.Currency}}{{money .CGST}}</td>
                <td class="num">{{$.Currency}}{{money .SGST}}</td>
                <td class="num">{{$.Currency}}{{money .Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Currency}}{{money .Invoice.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">CGST:</td>
                <td class="amount">{{.Currency}}{{money .Invoice.CGST}}</td>
            </tr>
            <tr>
                <td class="label">SGST:</td>
                <td class="amount">{{.Currency}}{{money .Invoice.SGST}}</td>
            </tr>
            {{if .Invoice.Discount.IsPositive}}
            <tr>
                <td class="label">Discount:</td>
                <td class="amount">-{{.Currency}}{{money .Invoice.Discount}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Currency}}{{money .Invoice.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    {{if .Invoice.Notes}}<p><strong>Notes:</strong> {{.Invoice.Notes}}</p>{{end}}

    <div class="footer">
        <p>Thank you for your business!</p>
        {{if or .Store.Email .Store.Phone}}<p>For any questions about this invoice, contact us at {{.Store.Email}} {{.Store.Phone}}</p>{{end}}
    </div>
</body>
</html>
`
