// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Categories is the fixed set of listing categories, shared by CinPlace and
// the Cinbusca directory.
var Categories = []string{
	"Alimentos",
	"Eletrônicos",
	"Serviços",
	"Imóveis",
	"Veículos",
	"Outros",
}

// Product is a CinPlace listing. The seller declares how much of the price
// may be paid in Cincoin: either a fixed percentage or a min/max window,
// optionally open to out-of-policy negotiation.
type Product struct {
	BaseModel
	SellerID    uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	SellerName  string         `json:"seller_name" gorm:"size:100;not null"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	PriceFiat       float64 `json:"price_fiat" gorm:"type:decimal(14,2);not null"`
	DiscountPercent float64 `json:"discount_percent" gorm:"type:decimal(5,2);default:0"`

	AcceptType       AcceptType `json:"accept_type" gorm:"type:varchar(10);not null"`
	FixedCinPercent  *float64   `json:"fixed_cin_percent,omitempty" gorm:"type:decimal(5,2)"`
	MinCinPercent    *float64   `json:"min_cin_percent,omitempty" gorm:"type:decimal(5,2)"`
	MaxCinPercent    *float64   `json:"max_cin_percent,omitempty" gorm:"type:decimal(5,2)"`
	AllowNegotiation bool       `json:"allow_negotiation" gorm:"default:false"`

	// Relationships
	Seller       User          `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Orders       []Order       `json:"orders,omitempty" gorm:"foreignKey:ProductID"`
	Negotiations []Negotiation `json:"negotiations,omitempty" gorm:"foreignKey:ProductID"`
}
