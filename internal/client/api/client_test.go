package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second)
}

func TestClient_LoginReadsTokenHeader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret123" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "AUTH_INVALID_CREDENTIALS", "message": "Invalid email or password"})
			return
		}
		w.Header().Set("Authorization", "Bearer tok-1")
		writeJSON(w, http.StatusOK, map[string]string{"_id": "u1", "fullName": "Jane", "email": req.Email, "role": "user"})
	})
	client := newTestClient(t, mux)

	result, err := client.Login(context.Background(), "jane@shop.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "user", result.User.Role)

	_, err = client.Login(context.Background(), "jane@shop.test", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuth)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", apiErr.Code)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestClient_SignupFallsBackToBodyToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"_id": "u2", "fullName": "Jo", "email": "jo@shop.test", "role": "user", "jwt": "tok-2"})
	})
	client := newTestClient(t, mux)

	result, err := client.Signup(context.Background(), SignupRequest{FullName: "Jo", Email: "jo@shop.test", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	assert.Equal(t, "tok-2", result.Token)
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", tokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", tokenFromHeader("bearer abc"))
	assert.Equal(t, "abc", tokenFromHeader("abc"))
	assert.Equal(t, "", tokenFromHeader(""))
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnauthorized, ErrAuth},
		{http.StatusForbidden, ErrAuth},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("not json"))
			})
			client := newTestClient(t, mux)

			_, err := client.GetProduct(context.Background(), "p1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_SendsBearerAndQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/product", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "men", r.URL.Query().Get("category"))
		assert.Equal(t, "tee", r.URL.Query().Get("search"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"_id": "p1", "title": "Tee", "price": 10}})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "AUTH_UNAUTHORIZED"})
			return
		}
		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusCreated, map[string]interface{}{"_id": "o1", "totalAmount": 20, "status": "pending", "products": req.Items})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	products, err := client.ListProducts(ctx, ProductQuery{Category: "men", Search: "tee", Limit: 5})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tee", products[0].Title)

	order, err := client.PlaceOrder(ctx, "tok-1", OrderRequest{Items: []OrderLine{{ProductID: "p1", Quantity: 2}}})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = client.PlaceOrder(ctx, "", OrderRequest{})
	assert.ErrorIs(t, err, ErrAuth)
}

func TestClient_NetworkAndCancellation(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL, time.Second)
	srv.Close()

	_, err := client.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNetwork)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.GetProduct(ctx, "p1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_MeAndAdminProducts(t *testing.T) {
	mux := http.NewServeMux()
	requireAdmin := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer admin-tok" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "AUTHZ_ADMIN_ONLY", "message": "Admin access required"})
			return false
		}
		return true
	}
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer expired" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "AUTH_TOKEN_EXPIRED", "message": "Session has expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"_id": "u1", "fullName": "Ada", "email": "ada@shop.test", "role": "admin"})
	})
	mux.HandleFunc("POST /api/product", func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}
		var in ProductInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, Product{ID: "p9", Title: in.Title, Price: in.Price, Category: in.Category, Stock: in.Stock})
	})
	mux.HandleFunc("PUT /api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"stock": float64(0), "clearDiscountedPrice": true}, body)
		writeJSON(w, http.StatusOK, Product{ID: r.PathValue("id"), Title: "Tee", Price: 10, Stock: 0})
	})
	mux.HandleFunc("DELETE /api/product/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}
		if r.PathValue("id") != "p9" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "PRODUCT_NOT_FOUND", "message": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
	})
	client := newTestClient(t, mux)
	ctx := context.Background()

	me, err := client.Me(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Role)
	_, err = client.Me(ctx, "expired")
	assert.ErrorIs(t, err, ErrAuth)

	created, err := client.CreateProduct(ctx, "admin-tok", ProductInput{Title: "Tee", Price: 10, Category: "men", Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
	assert.Equal(t, 3, created.Stock)

	_, err = client.CreateProduct(ctx, "user-tok", ProductInput{Title: "Tee", Price: 10, Category: "men"})
	assert.ErrorIs(t, err, ErrAuth)

	zero := 0
	updated, err := client.UpdateProduct(ctx, "admin-tok", "p9", ProductPatch{Stock: &zero, ClearDiscountedPrice: true})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)

	require.NoError(t, client.DeleteProduct(ctx, "admin-tok", "p9"))
	assert.ErrorIs(t, client.DeleteProduct(ctx, "admin-tok", "missing"), ErrNotFound)
}
