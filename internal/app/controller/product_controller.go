package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice"`
	Sizes           string   `json:"sizes"`
	Category        string   `json:"category"`
	Images          []string `json:"images"`
	Stock           int      `json:"stock"`
}

type UpdateProductRequest struct {
	Title                *string  `json:"title"`
	Description          *string  `json:"description"`
	Price                *float64 `json:"price"`
	DiscountedPrice      *float64 `json:"discountedPrice"`
	ClearDiscountedPrice bool     `json:"clearDiscountedPrice"`
	Sizes                *string  `json:"sizes"`
	Category             *string  `json:"category"`
	Images               []string `json:"images"`
	Stock                *int     `json:"stock"`
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// respondProductError maps product service errors to responses.
func respondProductError(c *gin.Context, err error, context string) {
	var verr *service.ProductValidationError
	switch {
	case errors.Is(err, service.ErrProductRequiredFields):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Title, price, and category are required.")
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, "Invalid product", verr.Fields)
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	default:
		middleware.GetLoggerFromContext(c).Error("Product request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListProducts lists products
// GET /api/product?category=&search=&limit=&offset=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be a non-negative integer")
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "offset must be a non-negative integer")
		return
	}

	products, err := ctrl.productService.ListProducts(c.Request.Context(), service.ProductListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondProductError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProductByID returns a single product
// GET /api/product/:id
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	product, err := ctrl.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondProductError(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a product
// POST /api/product
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product := &model.Product{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		Sizes:           req.Sizes,
		Category:        req.Category,
		Images:          req.Images,
		Stock:           req.Stock,
	}
	if err := ctrl.productService.CreateProduct(c.Request.Context(), product); err != nil {
		respondProductError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update
// PUT /api/product/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload")
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), c.Param("id"), service.ProductPatch{
		Title:                req.Title,
		Description:          req.Description,
		Price:                req.Price,
		DiscountedPrice:      req.DiscountedPrice,
		ClearDiscountedPrice: req.ClearDiscountedPrice,
		Sizes:                req.Sizes,
		Category:             req.Category,
		Images:               req.Images,
		Stock:                req.Stock,
	})
	if err != nil {
		respondProductError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
// DELETE /api/product/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	if err := ctrl.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondProductError(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
