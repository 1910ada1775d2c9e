// internal/services/settings_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/config"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

// SettingsService reads and writes platform settings (token price, fees).
// Config defaults apply until an admin overrides a key.
type SettingsService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSettingsService(db *gorm.DB, cfg *config.Config) *SettingsService {
	return &SettingsService{db: db, cfg: cfg}
}

func (s *SettingsService) GetFloat(key string, fallback float64) float64 {
	var setting models.AdminSettings
	if err := s.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	if raw, ok := setting.Value["value"]; ok {
		if value, ok := raw.(float64); ok {
			return value
		}
	}
	return fallback
}

func (s *SettingsService) SetFloat(key, category string, value float64, adminID uuid.UUID) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative", apperrors.ErrValidation, key)
	}

	var setting models.AdminSettings
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.AdminSettings{
			Category:  category,
			Key:       key,
			DataType:  "float",
			UpdatedBy: adminID,
		}
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	setting.Value = models.JSONB{"value": value}
	setting.UpdatedBy = adminID
	if err := s.db.Save(&setting).Error; err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// TokenPriceBRL returns the fixed CNC price set by the admin.
func (s *SettingsService) TokenPriceBRL() float64 {
	return s.GetFloat(models.SettingTokenPriceBRL, s.cfg.Exchange.DefaultTokenPriceBRL)
}

func (s *SettingsService) TransferFeePercent() float64 {
	return s.GetFloat(models.SettingTransferFeePercent, s.cfg.Platform.TransferFeePercent)
}

func (s *SettingsService) WithdrawalFeePercent() float64 {
	return s.GetFloat(models.SettingWithdrawalFeePercent, s.cfg.Platform.WithdrawalFeePercent)
}

func (s *SettingsService) SignupBonus() float64 {
	return s.GetFloat(models.SettingSignupBonus, s.cfg.Platform.SignupBonus)
}

func (s *SettingsService) PurchaseCommissionPercent() float64 {
	return s.GetFloat(models.SettingPurchaseCommissionPercent, s.cfg.Platform.PurchaseCommissionPercent)
}
