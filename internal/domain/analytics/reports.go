// internal/domain/analytics/reports.go
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/apperror"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

// SalesPeriod aggregates the invoices of one day, week or month
type SalesPeriod struct {
	Period   string          `json:"period"`
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// SalesTotals aggregates every invoice in a report
type SalesTotals struct {
	Count    int64           `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	TotalGST decimal.Decimal `json:"total_gst"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// SalesReport is sales grouped by period
type SalesReport struct {
	GroupBy string        `json:"group_by"`
	Periods []SalesPeriod `json:"periods"`
	Totals  SalesTotals   `json:"totals"`
}

// GSTRateSummary is the tax collected at one GST rate
type GSTRateSummary struct {
	GSTRate       decimal.Decimal `json:"gst_rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	TotalGST      decimal.Decimal `json:"total_gst"`
}

// GSTReport is tax collected per rate plus invoice totals
type GSTReport struct {
	Rates  []GSTRateSummary `json:"rates"`
	Totals SalesTotals      `json:"totals"`
}

// ProductSales is one row of the top products report
type ProductSales struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Count       int64           `json:"count"`
}

// StockTurnover is how fast one product sells relative to its opening stock
type StockTurnover struct {
	ProductID      uint            `json:"product_id"`
	ProductName    string          `json:"product_name"`
	SKU            *string         `json:"sku"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	OpeningStock   decimal.Decimal `json:"opening_stock"`
	SalesQuantity  decimal.Decimal `json:"sales_quantity"`
	Turnover       decimal.Decimal `json:"turnover"`
	DaysToTurnover *int64          `json:"days_to_turnover"`
}

// CustomerHistory is a customer's invoices and spend summary
type CustomerHistory struct {
	Customer          *customer.Customer `json:"customer"`
	Invoices          []invoice.Invoice  `json:"invoices"`
	TotalInvoices     int64              `json:"total_invoices"`
	TotalSpent        decimal.Decimal    `json:"total_spent"`
	AverageOrderValue decimal.Decimal    `json:"average_order_value"`
}

// Sales groups invoices in the range by day, week (starting Sunday) or month
func (s *Service) Sales(req *ReportRequest) (*SalesReport, error) {
	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	groupBy := req.GroupBy
	if groupBy == "" {
		groupBy = GroupByDay
	}

	invoices, err := s.invoicesInRange(dates, false)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{GroupBy: groupBy, Periods: []SalesPeriod{}}
	index := make(map[string]int)

	for _, inv := range invoices {
		key := periodKey(inv.CreatedAt.In(time.Local), groupBy)
		i, ok := index[key]
		if !ok {
			i = len(report.Periods)
			index[key] = i
			report.Periods = append(report.Periods, SalesPeriod{Period: key})
		}

		p := &report.Periods[i]
		p.Count++
		p.Subtotal = p.Subtotal.Add(inv.Subtotal)
		p.GST = p.GST.Add(inv.TotalGST)
		p.Discount = p.Discount.Add(inv.Discount)
		p.Total = p.Total.Add(inv.Total)
	}

	report.Totals = sumInvoices(invoices)
	return report, nil
}

// GST summarises tax per rate from the invoice lines in the range
func (s *Service) GST(req *ReportRequest) (*GSTReport, error) {
	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoicesInRange(dates, true)
	if err != nil {
		return nil, err
	}

	byRate := make(map[string]*GSTRateSummary)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			key := item.GSTRate.String()
			summary, ok := byRate[key]
			if !ok {
				summary = &GSTRateSummary{GSTRate: item.GSTRate}
				byRate[key] = summary
			}
			summary.TaxableAmount = summary.TaxableAmount.Add(item.Subtotal)
			summary.CGST = summary.CGST.Add(item.CGST)
			summary.SGST = summary.SGST.Add(item.SGST)
			summary.TotalGST = summary.TotalGST.Add(item.TotalGST)
		}
	}

	rates := make([]GSTRateSummary, 0, len(byRate))
	for _, summary := range byRate {
		rates = append(rates, GSTRateSummary{
			GSTRate:       summary.GSTRate,
			TaxableAmount: round2(summary.TaxableAmount),
			CGST:          round2(summary.CGST),
			SGST:          round2(summary.SGST),
			TotalGST:      round2(summary.TotalGST),
		})
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].GSTRate.LessThan(rates[j].GSTRate)
	})

	return &GSTReport{Rates: rates, Totals: sumInvoices(invoices)}, nil
}

// TopProducts ranks products by revenue in the range
func (s *Service) TopProducts(req *ReportRequest) ([]ProductSales, error) {
	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}

	var items []invoice.InvoiceItem
	query := s.db.Model(&invoice.InvoiceItem{}).
		Select("invoice_items.*").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id")
	if err := withinRange(query, "invoices.created_at", dates).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve invoice items: %w", err)
	}

	byProduct := make(map[uint]*ProductSales)
	for _, item := range items {
		ps, ok := byProduct[item.ProductID]
		if !ok {
			ps = &ProductSales{ProductID: item.ProductID, ProductName: item.ProductName}
			byProduct[item.ProductID] = ps
		}
		ps.Quantity = ps.Quantity.Add(item.Quantity)
		ps.Revenue = ps.Revenue.Add(item.Total)
		ps.Count++
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		ps.Revenue = round2(ps.Revenue)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// StockTurnover compares units sold in the range with opening stock for
// every active product
func (s *Service) StockTurnover(req *ReportRequest) ([]StockTurnover, error) {
	dates, err := timeutil.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var products []product.Product
	if err := s.db.Where("is_active = ?", true).Order("name ASC, id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	var sales []inventory.StockMovement
	query := s.db.Model(&inventory.StockMovement{}).Where("type = ?", inventory.MovementSale)
	if err := withinRange(query, "created_at", dates).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve sales movements: %w", err)
	}

	sold := make(map[uint]decimal.Decimal)
	for _, m := range sales {
		sold[m.ProductID] = sold[m.ProductID].Add(m.Quantity.Abs())
	}

	year := decimal.NewFromInt(daysPerYear)
	out := make([]StockTurnover, 0, len(products))
	for _, p := range products {
		row := StockTurnover{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SKU:           p.SKU,
			CurrentStock:  p.CurrentStock,
			OpeningStock:  p.OpeningStock,
			SalesQuantity: sold[p.ID],
			Turnover:      decimal.Zero,
		}
		if p.OpeningStock.IsPositive() {
			turnover := row.SalesQuantity.Div(p.OpeningStock)
			row.Turnover = round2(turnover)
			if turnover.IsPositive() {
				days := year.Div(turnover).Round(0).IntPart()
				row.DaysToTurnover = &days
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// CustomerHistory lists a customer's invoices with spend totals
func (s *Service) CustomerHistory(customerID uint) (*CustomerHistory, error) {
	if customerID == 0 {
		return nil, apperror.NewInvalidArgument("Customer ID is required")
	}

	var cust customer.Customer
	if err := s.db.Where("id = ?", customerID).First(&cust).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("Customer")
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}

	var invoices []invoice.Invoice
	if err := s.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}

	history := &CustomerHistory{
		Customer:          &cust,
		Invoices:          invoices,
		TotalInvoices:     int64(len(invoices)),
		TotalSpent:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, inv := range invoices {
		history.TotalSpent = history.TotalSpent.Add(inv.Total)
	}
	if history.TotalInvoices > 0 {
		history.AverageOrderValue = round2(history.TotalSpent.Div(decimal.NewFromInt(history.TotalInvoices)))
	}
	history.TotalSpent = round2(history.TotalSpent)

	return history, nil
}

func (s *Service) invoicesInRange(dates timeutil.Range, withItems bool) ([]invoice.Invoice, error) {
	query := s.db.Model(&invoice.Invoice{})
	if withItems {
		query = query.Preload("Items")
	}

	var invoices []invoice.Invoice
	if err := withinRange(query, "created_at", dates).
		Order("created_at ASC, id ASC").
		Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	return invoices, nil
}

func sumInvoices(invoices []invoice.Invoice) SalesTotals {
	var t SalesTotals
	for _, inv := range invoices {
		t.Count++
		t.Subtotal = t.Subtotal.Add(inv.Subtotal)
		t.CGST = t.CGST.Add(inv.CGST)
		t.SGST = t.SGST.Add(inv.SGST)
		t.TotalGST = t.TotalGST.Add(inv.TotalGST)
		t.Discount = t.Discount.Add(inv.Discount)
		t.Total = t.Total.Add(inv.Total)
	}
	return t
}

func periodKey(t time.Time, groupBy string) string {
	switch groupBy {
	case GroupByWeek:
		weekStart := timeutil.StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
		return weekStart.Format(timeutil.DateLayout)
	case GroupByMonth:
		return t.Format("2006-01")
	}
	return t.Format(timeutil.DateLayout)
}
