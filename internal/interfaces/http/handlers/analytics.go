// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/analytics"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/spreadsheet"
)

const formatXLSX = "xlsx"

// ReportHandler serves the reports and the dashboard
type ReportHandler struct {
	analyticsService *analytics.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *analytics.Service) *ReportHandler {
	return &ReportHandler{analyticsService: svc}
}

// GetDashboardStats handles GET /dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Dashboard stats retrieved successfully", stats)
}

// Sales handles GET /reports/sales
func (h *ReportHandler) Sales(c *gin.Context) {
	h.report(c, analytics.ReportSales, func(req *analytics.ReportRequest) (interface{}, error) {
		return h.analyticsService.Sales(req)
	})
}

// GST handles GET /reports/gst
func (h *ReportHandler) GST(c *gin.Context) {
	h.report(c, analytics.ReportGST, func(req *analytics.ReportRequest) (interface{}, error) {
		return h.analyticsService.GST(req)
	})
}

// TopProducts handles GET /reports/top-products
func (h *ReportHandler) TopProducts(c *gin.Context) {
	h.report(c, analytics.ReportTopProducts, func(req *analytics.ReportRequest) (interface{}, error) {
		return h.analyticsService.TopProducts(req)
	})
}

// StockTurnover handles GET /reports/stock-turnover
func (h *ReportHandler) StockTurnover(c *gin.Context) {
	h.report(c, analytics.ReportStockTurnover, func(req *analytics.ReportRequest) (interface{}, error) {
		return h.analyticsService.StockTurnover(req)
	})
}

// CustomerHistory handles GET /reports/customer-history?customer_id=
func (h *ReportHandler) CustomerHistory(c *gin.Context) {
	h.report(c, analytics.ReportCustomerHistory, func(req *analytics.ReportRequest) (interface{}, error) {
		return h.analyticsService.CustomerHistory(req.CustomerID)
	})
}

// report binds the shared query, then answers with JSON or, for
// ?format=xlsx, a workbook download.
func (h *ReportHandler) report(c *gin.Context, name string, run func(*analytics.ReportRequest) (interface{}, error)) {
	var req analytics.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), formatXLSX) {
		var buf bytes.Buffer
		if err := h.analyticsService.Export(&buf, name, &req); err != nil {
			respondError(c, err)
			return
		}

		filename := fmt.Sprintf("%s-report-%s.xlsx", name, time.Now().Format("2006-01-02"))
		attachment(c, spreadsheet.ContentType, filename)
		c.Data(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
		return
	}

	result, err := run(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Report generated successfully", result)
}
