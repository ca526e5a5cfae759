// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/middleware"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	stockService *inventory.Service
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stock *inventory.Service) *StockHandler {
	return &StockHandler{stockService: stock}
}

// PredictionRequest represents stock prediction query parameters
type PredictionRequest struct {
	ProductID uint `form:"product_id"`
	Days      int  `form:"days" binding:"omitempty,min=1,max=365"`
}

// AdjustStock handles POST /stock/adjust
func (h *StockHandler) AdjustStock(c *gin.Context) {
	var req inventory.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	movement, err := h.stockService.AdjustStock(c.Request.Context(), &req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Stock adjusted successfully", movement)
}

// GetHistory handles GET /stock/history
func (h *StockHandler) GetHistory(c *gin.Context) {
	var req inventory.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.stockService.GetHistory(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock history retrieved successfully", response)
}

// GetAlerts handles GET /stock/alerts
func (h *StockHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.stockService.GetAlerts()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock alerts retrieved successfully", alerts)
}

// GetPrediction handles GET /stock/prediction
func (h *StockHandler) GetPrediction(c *gin.Context) {
	var req PredictionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	var productID *uint
	if req.ProductID > 0 {
		productID = &req.ProductID
	}

	predictions, err := h.stockService.Predict(productID, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock prediction generated successfully", predictions)
}

// Reconcile handles GET /stock/reconcile/:productId
func (h *StockHandler) Reconcile(c *gin.Context) {
	id, ok := parseID(c, "productId", "product")
	if !ok {
		return
	}

	rec, err := h.stockService.Reconcile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Stock reconciled", rec)
}
