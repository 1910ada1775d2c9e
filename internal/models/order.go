// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order is the append-only record of a split purchase. TotalPrice is the
// effective (post-discount) price at purchase time; CinAmount is in CNC units
// and FiatAmount in BRL. Orders are never mutated after creation.
type Order struct {
	BaseModel
	ProductID        uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	BuyerID          uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	TotalPrice       float64   `json:"total_price" gorm:"type:decimal(14,2);not null"`
	ChosenCinPercent float64   `json:"chosen_cin_percent" gorm:"type:decimal(5,2);not null"`
	CinAmount        float64   `json:"cin_amount" gorm:"type:decimal(16,2);not null"`
	FiatAmount       float64   `json:"fiat_amount" gorm:"type:decimal(14,2);not null"`

	// IdempotencyKey guards against double-charging on client retries.
	IdempotencyKey   string `json:"idempotency_key,omitempty" gorm:"size:64;uniqueIndex"`
	PaymentReference string `json:"payment_reference,omitempty" gorm:"size:255"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
