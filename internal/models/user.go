// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	KYCStatus    KYCStatus  `json:"kyc_status" gorm:"type:varchar(20);default:'unverified'"`

	// Balance is the CNC holding; FiatBalance the simulated BRL account.
	Balance      float64 `json:"balance" gorm:"type:decimal(16,2);not null;default:0"`
	FiatBalance  float64 `json:"fiat_balance" gorm:"type:decimal(16,2);not null;default:0"`
	PendingBonus float64 `json:"pending_bonus" gorm:"type:decimal(16,2);not null;default:0"`

	ProfileData JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Relationships
	Products     []Product     `json:"products,omitempty" gorm:"foreignKey:SellerID"`
	Orders       []Order       `json:"orders,omitempty" gorm:"foreignKey:BuyerID"`
	SellOrders   []SellOrder   `json:"sell_orders,omitempty" gorm:"foreignKey:UserID"`
	BankAssets   []BankAsset   `json:"bank_assets,omitempty" gorm:"foreignKey:UserID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:UserID"`
	Referrals    []Referral    `json:"referrals,omitempty" gorm:"foreignKey:ReferrerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
