package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"_id" bson:"_id"`
	Title           string         `gorm:"not null;index" json:"title" bson:"title" validate:"required,max=200"`
	Description     string         `gorm:"type:text" json:"description" bson:"description" validate:"max=5000"`
	Price           float64        `gorm:"not null" json:"price" bson:"price" validate:"required,gt=0"`
	DiscountedPrice *float64       `json:"discountedPrice,omitempty" bson:"discountedPrice,omitempty" validate:"omitempty,gt=0,ltefield=Price"`
	Sizes           string         `json:"sizes" bson:"sizes"`
	Category        string         `gorm:"type:varchar(100);not null;index" json:"category" bson:"category" validate:"required,max=100"`
	Images          pq.StringArray `gorm:"type:text[]" json:"images" bson:"images" validate:"dive,required"`
	Stock           int            `gorm:"default:0" json:"stock" bson:"stock" validate:"gte=0"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.EnsureID()
	return nil
}

// EnsureID assigns a fresh UUID when the product has none yet.
func (p *Product) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

// EffectivePrice is the discounted price when one is set and not above the list price.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil && *p.DiscountedPrice <= p.Price {
		return *p.DiscountedPrice
	}
	return p.Price
}
