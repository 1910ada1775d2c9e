// internal/models/sell_order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SellOrder is a pending token liquidation request. PositionInQueue is the
// FIFO slot among all non-completed orders, kept contiguous (1..N) by the
// exchange service; insertion time is the sole ordering criterion.
type SellOrder struct {
	BaseModel
	UserID          uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount          float64         `json:"amount" gorm:"type:decimal(16,2);not null"`
	Price           float64         `json:"price" gorm:"type:decimal(12,4);not null"`
	TotalBrl        float64         `json:"total_brl" gorm:"type:decimal(16,2);not null"`
	Status          SellOrderStatus `json:"status" gorm:"type:varchar(12);default:'waiting';index"`
	PositionInQueue int             `json:"position_in_queue" gorm:"not null;default:0"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Pending reports whether the order still occupies a queue position.
func (o *SellOrder) Pending() bool {
	return o.Status == SellOrderStatusWaiting || o.Status == SellOrderStatusProcessing
}
