package api

import "time"

type User struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// AuthResult is the outcome of signup and login.
type AuthResult struct {
	Token string
	User  User
}

type SignupRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
}

type Product struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	DiscountedPrice *float64  `json:"discountedPrice,omitempty"`
	Sizes           string    `json:"sizes"`
	Category        string    `json:"category"`
	Images          []string  `json:"images"`
	Stock           int       `json:"stock"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProductInput is the body of an admin product create.
type ProductInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Sizes           string   `json:"sizes,omitempty"`
	Category        string   `json:"category"`
	Images          []string `json:"images,omitempty"`
	Stock           int      `json:"stock"`
}

// ProductPatch is a partial admin update. Nil fields are left unchanged.
type ProductPatch struct {
	Title                *string  `json:"title,omitempty"`
	Description          *string  `json:"description,omitempty"`
	Price                *float64 `json:"price,omitempty"`
	DiscountedPrice      *float64 `json:"discountedPrice,omitempty"`
	ClearDiscountedPrice bool     `json:"clearDiscountedPrice,omitempty"`
	Sizes                *string  `json:"sizes,omitempty"`
	Category             *string  `json:"category,omitempty"`
	Images               []string `json:"images,omitempty"`
	Stock                *int     `json:"stock,omitempty"`
}

// ProductQuery filters a product listing. Zero values are omitted.
type ProductQuery struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
}

type OrderRequest struct {
	Items           []OrderLine     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
}

type OrderItem struct {
	ProductID string  `json:"product"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
}

type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"products"`
	TotalAmount     float64         `json:"totalAmount"`
	Status          string          `json:"status"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}
