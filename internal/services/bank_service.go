// internal/services/bank_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

// BankService is the CinBank surface: investment positions funded from the
// fiat balance and the virtual card waitlist.
type BankService struct {
	db *gorm.DB
}

type InvestRequest struct {
	Name      string               `json:"name" validate:"required,min=3,max=255"`
	Type      models.BankAssetType `json:"type" validate:"required"`
	AmountBRL float64              `json:"amount_brl" validate:"required,gt=0"`
}

type BankSummary struct {
	TotalInvested float64            `json:"total_invested"`
	Assets        []models.BankAsset `json:"assets"`
}

// profitabilityByType labels the catalogue offers shown on the bank page.
var profitabilityByType = map[models.BankAssetType]string{
	models.BankAssetTypeCDI:        "110% do CDI",
	models.BankAssetTypeConsortium: "Contemplação em até 60 meses",
	models.BankAssetTypeCryptoFund: "Renda variável",
}

func NewBankService(db *gorm.DB) *BankService {
	return &BankService{db: db}
}

// Invest opens (or tops up) a position, debiting the fiat balance.
func (s *BankService) Invest(userID uuid.UUID, req *InvestRequest) (*models.BankAsset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, ok := profitabilityByType[req.Type]; !ok {
		return nil, fmt.Errorf("%w: unknown asset type %s", apperrors.ErrValidation, req.Type)
	}

	var asset *models.BankAsset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if user.FiatBalance < req.AmountBRL {
			return fmt.Errorf("%w: need %.2f BRL, have %.2f", apperrors.ErrInsufficientBalance, req.AmountBRL, user.FiatBalance)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("fiat_balance", gorm.Expr("fiat_balance - ?", req.AmountBRL)).Error; err != nil {
			return fmt.Errorf("failed to debit investment: %w", err)
		}

		// Same-named position of the same type accumulates instead of
		// duplicating.
		var existing models.BankAsset
		err := tx.Where("user_id = ? AND name = ? AND type = ?", userID, req.Name, req.Type).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).
				Update("balance", gorm.Expr("balance + ?", req.AmountBRL)).Error; err != nil {
				return fmt.Errorf("failed to top up asset: %w", err)
			}
			existing.Balance += req.AmountBRL
			asset = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			asset = &models.BankAsset{
				UserID:        userID,
				Name:          req.Name,
				Type:          req.Type,
				Balance:       req.AmountBRL,
				Profitability: profitabilityByType[req.Type],
				Status:        models.BankAssetStatusActive,
			}
			if err := tx.Create(asset).Error; err != nil {
				return fmt.Errorf("failed to create asset: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		entry := &models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypeInvest,
			Amount:   req.AmountBRL,
			Currency: models.CurrencyBRL,
			Status:   models.TransactionStatusCompleted,
			Details:  fmt.Sprintf("CinBank: %s", req.Name),
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record investment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Redeem closes out value from a position back to the fiat balance.
func (s *BankService) Redeem(userID, assetID uuid.UUID, amountBRL float64) (*models.BankAsset, error) {
	if amountBRL <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	var asset models.BankAsset
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: asset", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if asset.UserID != userID {
			return fmt.Errorf("%w: not your asset", apperrors.ErrUnauthorized)
		}
		if asset.Balance < amountBRL {
			return fmt.Errorf("%w: asset holds %.2f BRL", apperrors.ErrInsufficientBalance, asset.Balance)
		}

		if err := tx.Model(&asset).
			Update("balance", gorm.Expr("balance - ?", amountBRL)).Error; err != nil {
			return fmt.Errorf("failed to redeem: %w", err)
		}
		asset.Balance -= amountBRL

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("fiat_balance", gorm.Expr("fiat_balance + ?", amountBRL)).Error; err != nil {
			return fmt.Errorf("failed to credit redemption: %w", err)
		}

		entry := &models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypeDeposit,
			Amount:   amountBRL,
			Currency: models.CurrencyBRL,
			Status:   models.TransactionStatusCompleted,
			Details:  fmt.Sprintf("CinBank resgate: %s", asset.Name),
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record redemption: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssets returns the user's positions and their BRL total.
func (s *BankService) GetAssets(userID uuid.UUID) (*BankSummary, error) {
	var assets []models.BankAsset
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	summary := &BankSummary{Assets: assets}
	for _, asset := range assets {
		summary.TotalInvested += asset.Balance
	}
	return summary, nil
}

// RequestCard puts the user on the virtual card waitlist, kept as a pending
// zero-balance asset so it shows up alongside real positions.
func (s *BankService) RequestCard(userID uuid.UUID) (*models.BankAsset, error) {
	var existing models.BankAsset
	err := s.db.Where("user_id = ? AND name = ?", userID, "Cartão Cincoin").First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: card already requested", apperrors.ErrDuplicateRequest)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	card := &models.BankAsset{
		UserID:        userID,
		Name:          "Cartão Cincoin",
		Type:          models.BankAssetTypeCryptoFund,
		Balance:       0,
		Profitability: "Cashback em CNC",
		Status:        models.BankAssetStatusPending,
	}
	if err := s.db.Create(card).Error; err != nil {
		return nil, fmt.Errorf("failed to create card request: %w", err)
	}
	return card, nil
}
