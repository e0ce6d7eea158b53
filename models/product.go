package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLowStockThreshold is used when a product is created without one.
const DefaultLowStockThreshold = 10

type Product struct {
	ID                primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	Name              string              `json:"name" bson:"name"`
	Barcode           string              `json:"barcode" bson:"barcode"`
	Price             float64             `json:"price" bson:"price"`
	Stock             int                 `json:"stock" bson:"stock"`
	LowStockThreshold int                 `json:"low_stock_threshold" bson:"low_stock_threshold"`
	IsDiscountable    bool                `json:"is_discountable" bson:"is_discountable"`
	IsVATExemptable   bool                `json:"is_vat_exemptable" bson:"is_vat_exemptable"`
	Category          *primitive.ObjectID `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt         time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" bson:"updated_at"`
	DeletedAt         *time.Time          `json:"-" bson:"deleted_at,omitempty"`
}

// LowStock reports whether the product is at or below its threshold.
func (p *Product) LowStock() bool {
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return p.Stock <= threshold
}

type ProductCreateRequest struct {
	Name              string  `json:"name" binding:"required"`
	Barcode           string  `json:"barcode"`
	Price             float64 `json:"price" binding:"required,gt=0"`
	Stock             int     `json:"stock" binding:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" binding:"gte=0"`
	IsDiscountable    bool    `json:"is_discountable"`
	IsVATExemptable   bool    `json:"is_vat_exemptable"`
	Category          string  `json:"category"`
}
