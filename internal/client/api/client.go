// Package api is the shopper client's HTTP binding to the storefront server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
)

const bearerPrefix = "Bearer "

// Client calls the storefront REST API. Nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Signup registers an account and returns the issued token.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/signup", req)
}

// Login exchanges credentials for a token. Rejected credentials come back
// as ErrAuth even though the server answers 400.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	result, err := c.authenticate(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password})
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		apiErr.Kind = ErrAuth
	}
	return result, err
}

func (c *Client) authenticate(ctx context.Context, path string, payload interface{}) (*AuthResult, error) {
	var body struct {
		User
		JWT string `json:"jwt"`
	}
	header, err := c.do(ctx, http.MethodPost, path, "", payload, &body)
	if err != nil {
		return nil, err
	}

	token := tokenFromHeader(header.Get("Authorization"))
	if token == "" {
		token = body.JWT
	}
	if token == "" || body.ID == "" {
		return nil, &Error{Kind: ErrServer, Status: http.StatusOK, Message: "response carried no token or user"}
	}
	return &AuthResult{Token: token, User: body.User}, nil
}

// tokenFromHeader accepts the Authorization value with or without the Bearer prefix.
func tokenFromHeader(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= len(bearerPrefix) && strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		value = value[len(bearerPrefix):]
	}
	return strings.TrimSpace(value)
}

// Logout asks the server to revoke token.
func (c *Client) Logout(ctx context.Context, token string) error {
	var resp messageResponse
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, &resp)
	return err
}

// Me returns the account that owns token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the display name of the account that owns token.
func (c *Client) UpdateProfile(ctx context.Context, token, fullName string) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodPut, "/api/auth/me", token, UpdateProfileRequest{FullName: fullName}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	path := "/api/product"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var products []Product
	if _, err := c.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var product Product
	if _, err := c.do(ctx, http.MethodGet, "/api/product/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a catalog product. token must belong to an admin.
func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*Product, error) {
	var product Product
	if _, err := c.do(ctx, http.MethodPost, "/api/product", token, in, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies patch to the product id. token must belong to an admin.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, patch ProductPatch) (*Product, error) {
	var product Product
	if _, err := c.do(ctx, http.MethodPut, "/api/product/"+url.PathEscape(id), token, patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product id. token must belong to an admin.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	var resp messageResponse
	_, err := c.do(ctx, http.MethodDelete, "/api/product/"+url.PathEscape(id), token, nil, &resp)
	return err
}

// PlaceOrder submits a checkout.
func (c *Client) PlaceOrder(ctx context.Context, token string, req OrderRequest) (*Order, error) {
	var order Order
	if _, err := c.do(ctx, http.MethodPost, "/api/orders", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns the orders of the account that owns token.
func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if _, err := c.do(ctx, http.MethodGet, "/api/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// do performs a JSON request and decodes a 2xx reply into out.
func (c *Client) do(ctx context.Context, method, path, token string, payload, out interface{}) (http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", bearerPrefix+token)
	}

	logger.Debug("API request", map[string]interface{}{
		"method":        method,
		"path":          path,
		"authenticated": token != "",
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Kind: ErrNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrNetwork, Status: resp.StatusCode, Message: "failed to read response body"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode}
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		logger.Debug("API request failed", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"code":   apiErr.Code,
		})
		return nil, apiErr
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, &Error{Kind: ErrServer, Status: resp.StatusCode, Message: "unreadable response body"}
		}
	}
	return resp.Header, nil
}
