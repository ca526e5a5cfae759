// internal/interfaces/http/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
)

// CategoryHandler lists the free-text categories products are filed under
type CategoryHandler struct {
	productService *product.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(products *product.Service) *CategoryHandler {
	return &CategoryHandler{productService: products}
}

// GetCategories handles GET /products/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.productService.GetCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Categories retrieved successfully", categories)
}
