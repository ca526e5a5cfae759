// internal/interfaces/http/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/inventory"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/interfaces/http/middleware"
)

const recentMovementLimit = 10

// ProductHandler handles product endpoints
type ProductHandler struct {
	productService *product.Service
	stockService   *inventory.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service, stock *inventory.Service) *ProductHandler {
	return &ProductHandler{
		productService: products,
		stockService:   stock,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.productService.GetProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Products retrieved successfully", response)
}

// GetProduct handles GET /products/:id, including its latest stock movements
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	p, err := h.productService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	movements, err := h.stockService.GetRecentMovements(id, recentMovementLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Product retrieved successfully", gin.H{
		"product":          p,
		"recent_movements": movements,
	})
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.CreateProduct(&req, middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "Product created successfully", p)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	var req product.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Product updated successfully", p)
}

// DeleteProduct handles DELETE /products/:id. Sold products are
// deactivated rather than removed.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return
	}

	result, err := h.productService.DeleteProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Product deleted successfully"
	if result.Deactivated {
		message = "Product has sales history and was deactivated"
	}
	respondOK(c, message, result)
}
