// internal/models/negotiation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Negotiation is a buyer's request to transact outside a product's declared
// acceptance policy. PENDING moves to APPROVED or REJECTED exactly once;
// Version backs optimistic locking so two deciders cannot both settle it.
type Negotiation struct {
	BaseModel
	ProductID           uuid.UUID         `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName         string            `json:"product_name" gorm:"size:255;not null"`
	BuyerID             uuid.UUID         `json:"buyer_id" gorm:"type:uuid;not null;index"`
	BuyerName           string            `json:"buyer_name" gorm:"size:100;not null"`
	SellerID            uuid.UUID         `json:"seller_id" gorm:"type:uuid;not null;index"`
	RequestedCinPercent float64           `json:"requested_cin_percent" gorm:"type:decimal(5,2);not null"`
	Status              NegotiationStatus `json:"status" gorm:"type:varchar(10);default:'PENDING';index"`
	Version             int               `json:"version" gorm:"not null;default:0"`
	DecidedBy           *uuid.UUID        `json:"decided_by,omitempty" gorm:"type:uuid"`
	DecidedAt           *time.Time        `json:"decided_at,omitempty"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// Decided reports whether the negotiation reached a terminal state.
func (n *Negotiation) Decided() bool {
	return n.Status != NegotiationStatusPending
}
