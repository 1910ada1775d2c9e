// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleUser    UserRole = "user"
	UserRoleCompany UserRole = "company"
	UserRoleAdmin   UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type KYCStatus string

const (
	KYCStatusUnverified KYCStatus = "unverified"
	KYCStatusPending    KYCStatus = "pending"
	KYCStatusVerified   KYCStatus = "verified"
)

// AcceptType selects which pricing fields of a product are meaningful: a
// fixed Cincoin percentage, or a min/max window.
type AcceptType string

const (
	AcceptTypeFixed AcceptType = "FIXED"
	AcceptTypeRange AcceptType = "RANGE"
)

type NegotiationStatus string

const (
	NegotiationStatusPending  NegotiationStatus = "PENDING"
	NegotiationStatusApproved NegotiationStatus = "APPROVED"
	NegotiationStatusRejected NegotiationStatus = "REJECTED"
)

type SellOrderStatus string

const (
	SellOrderStatusWaiting    SellOrderStatus = "waiting"
	SellOrderStatusProcessing SellOrderStatus = "processing"
	SellOrderStatusCompleted  SellOrderStatus = "completed"
)

type TransactionType string

const (
	TransactionTypeSend       TransactionType = "send"
	TransactionTypeReceive    TransactionType = "receive"
	TransactionTypeBuy        TransactionType = "buy"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeExchange   TransactionType = "exchange"
	TransactionTypeInvest     TransactionType = "invest"
	TransactionTypeRefund     TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type Currency string

const (
	CurrencyCNC Currency = "CNC"
	CurrencyBRL Currency = "BRL"
)

type CompanyStatus string

const (
	CompanyStatusActive            CompanyStatus = "ACTIVE"
	CompanyStatusPendingValidation CompanyStatus = "PENDING_VALIDATION"
	CompanyStatusRejected          CompanyStatus = "REJECTED"
)

type BankAssetType string

const (
	BankAssetTypeCDI        BankAssetType = "cdi"
	BankAssetTypeConsortium BankAssetType = "consortium"
	BankAssetTypeCryptoFund BankAssetType = "crypto_fund"
)

type BankAssetStatus string

const (
	BankAssetStatusActive  BankAssetStatus = "active"
	BankAssetStatusPending BankAssetStatus = "pending"
)

type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusVerified ReferralStatus = "verified"
)

type CommissionType string

const (
	CommissionTypeSignupBonus        CommissionType = "SIGNUP_BONUS"
	CommissionTypePurchaseCommission CommissionType = "PURCHASE_COMMISSION"
)

type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "PENDING"
	CommissionStatusPaid    CommissionStatus = "PAID"
)
