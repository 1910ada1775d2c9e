// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

// AdminSettings stores platform-level configuration mutated from the admin
// console: the fixed CNC token price, transfer/withdrawal fee percentages,
// signup bonus amount.
type AdminSettings struct {
	BaseModel
	Category    string    `json:"category" gorm:"size:50;not null;index"`
	Key         string    `json:"key" gorm:"size:100;not null;index"`
	Value       JSONB     `json:"value" gorm:"type:jsonb;not null"`
	DataType    string    `json:"data_type" gorm:"size:20;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedBy   uuid.UUID `json:"updated_by" gorm:"type:uuid;not null"`

	// Relationships
	UpdatedByUser User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

// Well-known settings keys.
const (
	SettingTokenPriceBRL             = "token_price_brl"
	SettingTransferFeePercent        = "transfer_fee_percent"
	SettingWithdrawalFeePercent      = "withdrawal_fee_percent"
	SettingSignupBonus               = "signup_bonus"
	SettingPurchaseCommissionPercent = "purchase_commission_percent"
)

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
