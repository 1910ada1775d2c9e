// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a ledger entry on a user's statement (wallet sends, exchange
// trades, purchases, investments). Counterparty is the display name shown in
// the statement, not a foreign key.
type Transaction struct {
	BaseModel
	UserID       uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Type         TransactionType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Amount       float64           `json:"amount" gorm:"type:decimal(16,2);not null"`
	Currency     Currency          `json:"currency" gorm:"type:varchar(5);not null"`
	Status       TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Counterparty string            `json:"counterparty" gorm:"size:100"`
	Details      string            `json:"details,omitempty" gorm:"type:text"`
	OrderID      *uuid.UUID        `json:"order_id,omitempty" gorm:"type:uuid;index"`
	ProcessedAt  *time.Time        `json:"processed_at"`

	// Relationships
	User  User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
