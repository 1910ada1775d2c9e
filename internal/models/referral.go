// internal/models/referral.go
package models

import (
	"github.com/google/uuid"
)

// Referral tracks an invited user. A referral that becomes verified releases
// the signup bonus to the referrer; pending ones accrue to PendingBonus.
type Referral struct {
	BaseModel
	ReferrerID uuid.UUID      `json:"referrer_id" gorm:"type:uuid;not null;index"`
	RefereeID  *uuid.UUID     `json:"referee_id,omitempty" gorm:"type:uuid;index"`
	Name       string         `json:"name" gorm:"size:100;not null"`
	Status     ReferralStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`

	// Relationships
	Referrer User  `json:"referrer,omitempty" gorm:"foreignKey:ReferrerID"`
	Referee  *User `json:"referee,omitempty" gorm:"foreignKey:RefereeID"`
}

type Commission struct {
	BaseModel
	ReferrerID   uuid.UUID        `json:"referrer_id" gorm:"type:uuid;not null;index"`
	ReferrerName string           `json:"referrer_name" gorm:"size:100;not null"`
	RefereeName  string           `json:"referee_name" gorm:"size:100;not null"`
	Type         CommissionType   `json:"type" gorm:"type:varchar(25);not null;index"`
	Amount       float64          `json:"amount" gorm:"type:decimal(16,2);not null"`
	BaseValue    *float64         `json:"base_value,omitempty" gorm:"type:decimal(16,2)"`
	Percentage   *float64         `json:"percentage,omitempty" gorm:"type:decimal(5,2)"`
	Status       CommissionStatus `json:"status" gorm:"type:varchar(10);default:'PENDING';index"`

	// Relationships
	Referrer User `json:"referrer,omitempty" gorm:"foreignKey:ReferrerID"`
}
