package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImageStorage struct{}

func (stubImageStorage) PresignUpload(_ context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
		return nil, err
	}
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.example.com/" + folder + "/" + filename + "?sig=1",
		FileURL:   "https://bucket.example.com/" + folder + "/" + filename,
		Key:       folder + "/" + filename,
	}, nil
}

func setupProductControllerTest(t *testing.T) (*gin.Engine, repository.ProductRepository) {
	testDB := setupTestDB(t)

	productRepo := repository.NewProductRepository(testDB)
	ctrl := NewProductController(service.NewProductService(productRepo))
	upload := NewUploadController(stubImageStorage{})
	authMiddleware := middleware.NewAuthMiddleware(testSecret, nil)
	admin := []gin.HandlerFunc{authMiddleware.Authenticate(), authMiddleware.RequireRole(model.RoleAdmin)}

	router := gin.New()
	router.GET("/product", ctrl.ListProducts)
	router.GET("/product/:id", ctrl.GetProductByID)
	router.POST("/product", append(admin, ctrl.CreateProduct)...)
	router.POST("/product/images", append(admin, upload.GeneratePresignedURL)...)
	router.PUT("/product/:id", append(admin, ctrl.UpdateProduct)...)
	router.DELETE("/product/:id", append(admin, ctrl.DeleteProduct)...)
	return router, productRepo
}

func TestProductController_CreateProduct(t *testing.T) {
	router, _ := setupProductControllerTest(t)
	adminToken := tokenFor(t, "admin-1", model.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/product", CreateProductRequest{
		Title: "Linen Shirt", Price: 1299, Category: "men", Sizes: "S,M,L",
		Images: []string{"https://cdn.example.com/a.jpg"}, Stock: 4,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code)

	var product model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Linen Shirt", product.Title)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, []string(product.Images))

	tests := []struct {
		name  string
		body  interface{}
		token string
		want  int
		code  string
	}{
		{"Missing category", CreateProductRequest{Title: "Shirt", Price: 10}, adminToken, http.StatusBadRequest, "VALIDATION_REQUIRED"},
		{"Discount above price", map[string]interface{}{"title": "Shirt", "price": 10, "discountedPrice": 20, "category": "men"}, adminToken, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"Not admin", CreateProductRequest{Title: "Shirt", Price: 10, Category: "men"}, tokenFor(t, "user-1", model.RoleUser), http.StatusForbidden, "AUTHZ_ADMIN_ONLY"},
		{"Anonymous", CreateProductRequest{Title: "Shirt", Price: 10, Category: "men"}, "", http.StatusUnauthorized, "AUTH_UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/product", tt.body, tt.token)
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.code, decodeBody(t, w)["error"])
		})
	}

	w = doJSON(t, router, http.MethodPost, "/product", CreateProductRequest{Title: "Shirt", Price: 10}, adminToken)
	assert.Equal(t, "Title, price, and category are required.", decodeBody(t, w)["message"])
}

func TestProductController_ReadUpdateDelete(t *testing.T) {
	router, repo := setupProductControllerTest(t)
	adminToken := tokenFor(t, "admin-1", model.RoleAdmin)

	product := &model.Product{Title: "Silk Saree", Price: 4999, Category: "women", Stock: 2}
	require.NoError(t, repo.Create(context.Background(), product))

	w := doJSON(t, router, http.MethodGet, "/product?category=women", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, router, http.MethodGet, "/product?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/product/"+product.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Silk Saree", decodeBody(t, w)["title"])

	w = doJSON(t, router, http.MethodGet, "/product/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeBody(t, w)["message"])

	w = doJSON(t, router, http.MethodPut, "/product/"+product.ID, map[string]interface{}{"price": 3999, "stock": 7}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 3999.0, body["price"])
	assert.Equal(t, 7.0, body["stock"])
	assert.Equal(t, "Silk Saree", body["title"])

	w = doJSON(t, router, http.MethodPut, "/product/missing", map[string]interface{}{"price": 1}, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/product/"+product.ID, nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", decodeBody(t, w)["message"])

	w = doJSON(t, router, http.MethodDelete, "/product/"+product.ID, nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadController_GeneratePresignedURL(t *testing.T) {
	router, _ := setupProductControllerTest(t)
	adminToken := tokenFor(t, "admin-1", model.RoleAdmin)

	w := doJSON(t, router, http.MethodPost, "/product/images", GeneratePresignedURLRequest{Filename: "a.png", ContentType: "image/png"}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "products/a.png", body["key"])
	assert.Contains(t, body["uploadUrl"], "sig=1")

	w = doJSON(t, router, http.MethodPost, "/product/images", GeneratePresignedURLRequest{Filename: "a.txt", ContentType: "text/plain"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UPLOAD_INVALID_FILE_TYPE", decodeBody(t, w)["error"])
}
