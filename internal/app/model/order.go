package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName" binding:"required"`
	Phone      string `json:"phone" bson:"phone" binding:"required"`
	Address    string `json:"address" bson:"address" binding:"required"`
	City       string `json:"city" bson:"city" binding:"required"`
	State      string `json:"state" bson:"state" binding:"required"`
	PostalCode string `json:"postalCode" bson:"postalCode" binding:"required"`
}

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	UserID          string          `gorm:"type:varchar(36);not null;index" json:"userId" bson:"userId"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"products" bson:"products"`
	TotalAmount     float64         `gorm:"not null" json:"totalAmount" bson:"totalAmount"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status" bson:"status"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	o.EnsureID()
	return nil
}

// EnsureID assigns ids to the order and its lines, and defaults the status.
func (o *Order) EnsureID() {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
		o.Items[i].OrderID = o.ID
	}
}

type OrderItem struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"-" bson:"-"`
	OrderID   string  `gorm:"type:varchar(36);not null;index" json:"-" bson:"-"`
	ProductID string  `gorm:"type:varchar(36);not null;index" json:"product" bson:"product"`
	Title     string  `json:"title" bson:"title"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice" bson:"unitPrice"`
	Quantity  int     `gorm:"not null" json:"quantity" bson:"quantity"`
	Size      string  `json:"size" bson:"size"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// Subtotal is the line total.
func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
