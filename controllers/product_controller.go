package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/models"
	"github.com/grocerly/pos-backend/services"
)

// ProductController exposes the catalog CRUD surface.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /api/products with ?search= and ?category= filters.
func (pc *ProductController) List(c *gin.Context) {
	page, perPage, skip := pagination(c)
	search := c.Query("search")

	var category *primitive.ObjectID
	if hex := c.Query("category"); hex != "" {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		category = &id
	}

	products, total, err := pc.products.List(c.Request.Context(), search, category, perPage, skip)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"meta":     paginationMeta(page, perPage, total),
	})
}

// LowStock handles GET /api/products/low-stock
func (pc *ProductController) LowStock(c *gin.Context) {
	products, err := pc.products.LowStock(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list low stock products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// Get handles GET /api/products/:id
func (pc *ProductController) Get(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	product, err := pc.products.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		zap.L().Error("failed to fetch product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Create handles POST /api/products
func (pc *ProductController) Create(c *gin.Context) {
	var req models.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, err := pc.products.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
			return
		}
		zap.L().Error("failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// Update handles PUT /api/products/:id. Only fields present in the body are
// changed.
func (pc *ProductController) Update(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name              *string  `json:"name"`
		Barcode           *string  `json:"barcode"`
		Price             *float64 `json:"price" binding:"omitempty,gt=0"`
		Stock             *int     `json:"stock" binding:"omitempty,gte=0"`
		LowStockThreshold *int     `json:"low_stock_threshold" binding:"omitempty,gte=0"`
		IsDiscountable    *bool    `json:"is_discountable"`
		IsVATExemptable   *bool    `json:"is_vat_exemptable"`
		Category          *string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.IsDiscountable != nil {
		updates["is_discountable"] = *req.IsDiscountable
	}
	if req.IsVATExemptable != nil {
		updates["is_vat_exemptable"] = *req.IsVATExemptable
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	product, err := pc.products.Update(c.Request.Context(), id, updates)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, services.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
		default:
			zap.L().Error("failed to update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// Delete handles DELETE /api/products/:id (soft delete).
func (pc *ProductController) Delete(c *gin.Context) {
	id, ok := objectIDParam(c)
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		zap.L().Error("failed to delete product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
