// internal/models/company.go
package models

import (
	"github.com/google/uuid"
)

// Company is a Cinbusca directory entry. New registrations start in
// PENDING_VALIDATION until an admin reviews the CNPJ and owner documents.
type Company struct {
	BaseModel
	OwnerID        uuid.UUID     `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name           string        `json:"name" gorm:"size:255;not null"`
	Category       string        `json:"category" gorm:"size:100;index"`
	Latitude       float64       `json:"latitude" gorm:"type:decimal(10,7)"`
	Longitude      float64       `json:"longitude" gorm:"type:decimal(10,7)"`
	PercentCincoin float64       `json:"percent_cincoin" gorm:"type:decimal(5,2);not null"`
	PercentBRL     float64       `json:"percent_brl" gorm:"type:decimal(5,2);not null"`
	Address        string        `json:"address" gorm:"size:255"`
	City           string        `json:"city" gorm:"size:100;index"`
	State          string        `json:"state" gorm:"size:2"`
	Phone          string        `json:"phone" gorm:"size:20"`
	Image          string        `json:"image" gorm:"size:512"`
	Rating         float64       `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews   int64         `json:"total_reviews" gorm:"default:0"`
	Status         CompanyStatus `json:"status" gorm:"type:varchar(20);default:'PENDING_VALIDATION';index"`

	// Validation documents
	CNPJ             string `json:"cnpj,omitempty" gorm:"size:18"`
	CNPJCardURL      string `json:"cnpj_card_url,omitempty" gorm:"size:512"`
	DocumentPhotoURL string `json:"document_photo_url,omitempty" gorm:"size:512"`
	OwnerName        string `json:"owner_name,omitempty" gorm:"size:100"`

	// Relationships
	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
