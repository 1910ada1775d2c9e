// internal/models/bank_asset.go
package models

import (
	"github.com/google/uuid"
)

// BankAsset is a CinBank position (CDB, consortium quota or crypto fund).
// Profitability is a display label like "110% do CDI".
type BankAsset struct {
	BaseModel
	UserID        uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Type          BankAssetType   `json:"type" gorm:"type:varchar(20);not null"`
	Balance       float64         `json:"balance" gorm:"type:decimal(16,2);not null;default:0"`
	Profitability string          `json:"profitability" gorm:"size:50"`
	Status        BankAssetStatus `json:"status" gorm:"type:varchar(10);default:'pending'"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
