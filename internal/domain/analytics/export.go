// internal/domain/analytics/export.go
package analytics

import (
	"io"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/spreadsheet"
)

// Report names accepted by Export
const (
	ReportSales           = "sales"
	ReportGST             = "gst"
	ReportTopProducts     = "top-products"
	ReportStockTurnover   = "stock-turnover"
	ReportCustomerHistory = "customer-history"
)

// Export runs the named report and writes it to w as an .xlsx workbook
func (s *Service) Export(w io.Writer, report string, req *ReportRequest) error {
	var sheets []spreadsheet.Sheet

	switch report {
	case ReportSales:
		r, err := s.Sales(req)
		if err != nil {
			return err
		}
		sheets = r.Sheets()
	case ReportGST:
		r, err := s.GST(req)
		if err != nil {
			return err
		}
		sheets = r.Sheets()
	case ReportTopProducts:
		r, err := s.TopProducts(req)
		if err != nil {
			return err
		}
		sheets = topProductsSheets(r)
	case ReportStockTurnover:
		r, err := s.StockTurnover(req)
		if err != nil {
			return err
		}
		sheets = stockTurnoverSheets(r)
	case ReportCustomerHistory:
		r, err := s.CustomerHistory(req.CustomerID)
		if err != nil {
			return err
		}
		sheets = r.Sheets()
	default:
		return apperror.NewInvalidArgument("unknown report: " + report)
	}

	return spreadsheet.Write(w, sheets...)
}

// Sheets lays the sales report out as a period sheet and a totals sheet
func (r *SalesReport) Sheets() []spreadsheet.Sheet {
	periods := spreadsheet.Sheet{
		Name:    "Sales",
		Headers: []string{"Period", "Invoices", "Subtotal", "GST", "Discount", "Total"},
	}
	for _, p := range r.Periods {
		periods.AddRow(p.Period, p.Count, p.Subtotal, p.GST, p.Discount, p.Total)
	}
	return []spreadsheet.Sheet{periods, totalsSheet(r.Totals)}
}

// Sheets lays the GST report out as a per-rate sheet and a totals sheet
func (r *GSTReport) Sheets() []spreadsheet.Sheet {
	rates := spreadsheet.Sheet{
		Name:    "GST",
		Headers: []string{"GST Rate", "Taxable Amount", "CGST", "SGST", "Total GST"},
	}
	for _, rate := range r.Rates {
		rates.AddRow(rate.GSTRate, rate.TaxableAmount, rate.CGST, rate.SGST, rate.TotalGST)
	}
	return []spreadsheet.Sheet{rates, totalsSheet(r.Totals)}
}

// Sheets lays the customer history out as a summary and an invoice list
func (h *CustomerHistory) Sheets() []spreadsheet.Sheet {
	summary := spreadsheet.Sheet{
		Name:    "Customer",
		Headers: []string{"Customer", "Phone", "Email", "Invoices", "Total Spent", "Average Order Value"},
	}
	summary.AddRow(h.Customer.Name, h.Customer.Phone, h.Customer.Email, h.TotalInvoices, h.TotalSpent, h.AverageOrderValue)

	invoices := spreadsheet.Sheet{
		Name:    "Invoices",
		Headers: []string{"Invoice Number", "Date", "Items", "Subtotal", "GST", "Discount", "Total", "Payment Method"},
	}
	for _, inv := range h.Invoices {
		invoices.AddRow(inv.InvoiceNumber, inv.CreatedAt, len(inv.Items), inv.Subtotal, inv.TotalGST, inv.Discount, inv.Total, inv.PaymentMethod)
	}
	return []spreadsheet.Sheet{summary, invoices}
}

func topProductsSheets(rows []ProductSales) []spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{
		Name:    "Top Products",
		Headers: []string{"Product ID", "Product", "Quantity", "Revenue", "Invoice Lines"},
	}
	for _, p := range rows {
		sheet.AddRow(p.ProductID, p.ProductName, p.Quantity, p.Revenue, p.Count)
	}
	return []spreadsheet.Sheet{sheet}
}

func stockTurnoverSheets(rows []StockTurnover) []spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{
		Name:    "Stock Turnover",
		Headers: []string{"Product ID", "Product", "SKU", "Opening Stock", "Current Stock", "Sold", "Turnover", "Days To Turnover"},
	}
	for _, t := range rows {
		var days interface{}
		if t.DaysToTurnover != nil {
			days = *t.DaysToTurnover
		}
		sheet.AddRow(t.ProductID, t.ProductName, t.SKU, t.OpeningStock, t.CurrentStock, t.SalesQuantity, t.Turnover, days)
	}
	return []spreadsheet.Sheet{sheet}
}

func totalsSheet(t SalesTotals) spreadsheet.Sheet {
	sheet := spreadsheet.Sheet{
		Name:    "Totals",
		Headers: []string{"Invoices", "Subtotal", "CGST", "SGST", "Total GST", "Discount", "Total"},
	}
	sheet.AddRow(t.Count, t.Subtotal, t.CGST, t.SGST, t.TotalGST, t.Discount, t.Total)
	return sheet
}
