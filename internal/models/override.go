package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductOverride is a manual correction layered over catalog data at render time.
type ProductOverride struct {
	ID           string    `json:"id" gorm:"primary_key"`
	Manufacturer string    `json:"manufacturer" gorm:"not null"`
	Category     string    `json:"category" gorm:"not null"`
	ProductName  string    `json:"productName" gorm:"not null"`
	CustomName   *string   `json:"customName"`
	PriceFactor  float64   `json:"priceFactor" gorm:"not null;default:1"`
	Discount     *float64  `json:"discount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ProductOverride) TableName() string {
	return "product_overrides"
}

func (o *ProductOverride) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OverrideKey is the natural key of an override.
type OverrideKey struct {
	Manufacturer string
	Category     string
	ProductName  string
}

func (o *ProductOverride) Key() OverrideKey {
	return OverrideKey{Manufacturer: o.Manufacturer, Category: o.Category, ProductName: o.ProductName}
}
