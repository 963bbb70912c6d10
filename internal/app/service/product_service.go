package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductRequiredFields = errors.New("title, price, and category are required")
	ErrInvalidProduct        = errors.New("invalid product")
)

// ProductValidationError lists the offending fields of a rejected product.
type ProductValidationError struct {
	Fields map[string]string
}

func (e *ProductValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+": "+rule)
	}
	return fmt.Sprintf("invalid product: %s", strings.Join(parts, ", "))
}

func (e *ProductValidationError) Unwrap() error {
	return ErrInvalidProduct
}

type ProductListOptions struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ProductPatch holds the fields of a partial update. Nil means unchanged.
type ProductPatch struct {
	Title                *string
	Description          *string
	Price                *float64
	DiscountedPrice      *float64
	ClearDiscountedPrice bool
	Sizes                *string
	Category             *string
	Images               []string
	Stock                *int
}

type ProductService interface {
	ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type productService struct {
	productRepo repository.ProductRepository
	validate    *validator.Validate
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// maxPageSize caps a single listing.
const maxPageSize = 100

func (s *productService) ListProducts(ctx context.Context, opts ProductListOptions) ([]model.Product, error) {
	limit := opts.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.FindWithFilter(ctx, repository.ProductFilter{
		Category: strings.TrimSpace(opts.Category),
		Search:   strings.TrimSpace(opts.Search),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) validateProduct(product *model.Product) error {
	product.Title = strings.TrimSpace(product.Title)
	product.Category = strings.TrimSpace(product.Category)
	if product.Title == "" || product.Price <= 0 || product.Category == "" {
		return ErrProductRequiredFields
	}

	if err := s.validate.Struct(product); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = fe.Tag()
		}
		return &ProductValidationError{Fields: fields}
	}
	return nil
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func (s *productService) CreateProduct(ctx context.Context, product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"title":    product.Title,
		"category": product.Category,
	})

	if err := s.validateProduct(product); err != nil {
		logger.Warn("Product rejected", map[string]interface{}{
			"title": product.Title,
			"error": err.Error(),
		})
		return err
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"title": product.Title,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*model.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyPatch(product, patch)
	if err := s.validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func applyPatch(product *model.Product, patch ProductPatch) {
	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.ClearDiscountedPrice {
		product.DiscountedPrice = nil
	} else if patch.DiscountedPrice != nil {
		v := *patch.DiscountedPrice
		product.DiscountedPrice = &v
	}
	if patch.Sizes != nil {
		product.Sizes = *patch.Sizes
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Images != nil {
		product.Images = append([]string{}, patch.Images...)
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
