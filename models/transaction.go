package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TxStatusCompleted = "completed"
	TxStatusRefunded  = "refunded"

	CustomerRegular = "regular"
	CustomerSenior  = "senior"
	CustomerPWD     = "pwd"
)

// TransactionItem is one checkout line as persisted on the transaction.
// Eligibility flags are copied from the product at checkout time so the
// receipt stays stable even if the product is edited later.
type TransactionItem struct {
	ProductID       primitive.ObjectID `json:"product_id" bson:"product_id"`
	Name            string             `json:"name" bson:"name"`
	Quantity        int                `json:"quantity" bson:"quantity"`
	UnitPrice       float64            `json:"unit_price" bson:"unit_price"`
	IsDiscountable  bool               `json:"is_discountable" bson:"is_discountable"`
	IsVATExemptable bool               `json:"is_vat_exemptable" bson:"is_vat_exemptable"`
	DiscountApplied bool               `json:"discount_applied" bson:"discount_applied"`
	VATExempt       bool               `json:"vat_exempt" bson:"vat_exempt"`
	DiscountAmount  float64            `json:"discount_amount" bson:"discount_amount"`
	FinalPrice      float64            `json:"final_price" bson:"final_price"`
}

type Transaction struct {
	ID           primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Number       string             `json:"number" bson:"number"`
	CashierID    primitive.ObjectID `json:"cashier_id" bson:"cashier_id"`
	CashierName  string             `json:"cashier_name" bson:"cashier_name"`
	CustomerType string             `json:"customer_type" bson:"customer_type"`
	Items        []TransactionItem  `json:"items" bson:"items"`
	Subtotal     float64            `json:"subtotal" bson:"subtotal"`
	Discount     float64            `json:"discount" bson:"discount"`
	Total        float64            `json:"total" bson:"total"`
	VATAmount    float64            `json:"vat_amount" bson:"vat_amount"`
	NetSales     float64            `json:"net_sales" bson:"net_sales"`
	VATRate      float64            `json:"vat_rate" bson:"vat_rate"`
	Status       string             `json:"status" bson:"status"`
	RefundedBy   string             `json:"refunded_by,omitempty" bson:"refunded_by,omitempty"`
	RefundReason string             `json:"refund_reason,omitempty" bson:"refund_reason,omitempty"`
	RefundedAt   *time.Time         `json:"refunded_at,omitempty" bson:"refunded_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequest struct {
	CustomerType string                `json:"customer_type" binding:"omitempty,oneof=regular senior pwd"`
	Items        []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}
