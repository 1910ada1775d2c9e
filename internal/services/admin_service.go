// internal/services/admin_service.go
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

type AdminService struct {
	db       *gorm.DB
	settings *SettingsService
}

type DashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	TotalOrders       int64   `json:"total_orders"`
	OrderVolumeBRL    float64 `json:"order_volume_brl"`
	OrderVolumeCNC    float64 `json:"order_volume_cnc"`
	PendingCompanies  int64   `json:"pending_companies"`
	PendingSellOrders int64   `json:"pending_sell_orders"`
	TokenPriceBRL     float64 `json:"token_price_brl"`
	CirculatingCNC    float64 `json:"circulating_cnc"`
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required"`
	Reason string            `json:"reason,omitempty" validate:"max=255"`
}

type UpdateSettingRequest struct {
	Key   string  `json:"key" validate:"required"`
	Value float64 `json:"value" validate:"required"`
}

type UserSearchParams struct {
	utils.PaginationParams
	Role   models.UserRole
	Status models.UserStatus
}

func NewAdminService(db *gorm.DB, settings *SettingsService) *AdminService {
	return &AdminService{db: db, settings: settings}
}

// GetDashboardStats aggregates the numbers on the admin landing page.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{TokenPriceBRL: s.settings.TokenPriceBRL()}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.User{}).
		Where("status = ?", models.UserStatusActive).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}
	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Company{}).
		Where("status = ?", models.CompanyStatusPendingValidation).
		Count(&stats.PendingCompanies).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending companies: %w", err)
	}
	if err := s.db.Model(&models.SellOrder{}).
		Where("status IN ?", []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}).
		Count(&stats.PendingSellOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count sell queue: %w", err)
	}

	var fiatVolume, cncVolume, circulating *float64
	if err := s.db.Model(&models.Order{}).
		Select("SUM(fiat_amount)").Scan(&fiatVolume).Error; err != nil {
		return nil, fmt.Errorf("failed to sum fiat volume: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Select("SUM(cin_amount)").Scan(&cncVolume).Error; err != nil {
		return nil, fmt.Errorf("failed to sum token volume: %w", err)
	}
	if err := s.db.Model(&models.User{}).
		Select("SUM(balance)").Scan(&circulating).Error; err != nil {
		return nil, fmt.Errorf("failed to sum balances: %w", err)
	}
	if fiatVolume != nil {
		stats.OrderVolumeBRL = *fiatVolume
	}
	if cncVolume != nil {
		stats.OrderVolumeCNC = *cncVolume
	}
	if circulating != nil {
		stats.CirculatingCNC = *circulating
	}
	return stats, nil
}

func (s *AdminService) GetUsers(params UserSearchParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "email"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

// UpdateUserStatus suspends, bans or reinstates a user, with an audit trail.
func (s *AdminService) UpdateUserStatus(userID, adminID uuid.UUID, req *UpdateUserStatusRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if user.Role == models.UserRoleAdmin {
			return fmt.Errorf("%w: cannot change another admin's status", apperrors.ErrUnauthorized)
		}

		oldStatus := user.Status
		if err := tx.Model(&user).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		user.Status = req.Status

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "user_status_change",
			ResourceType: "user",
			ResourceID:   &user.ID,
			OldValues:    models.JSONB{"status": string(oldStatus)},
			NewValues:    models.JSONB{"status": string(req.Status), "reason": req.Reason},
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyKYC marks a user verified. Verification also settles referral
// rewards: the referrer's pending bonus for this user moves into their spendable
// balance and the matching commission is recorded as paid.
func (s *AdminService) VerifyKYC(userID, adminID uuid.UUID, approve bool) (*models.User, error) {
	var user models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if user.KYCStatus == models.KYCStatusVerified {
			return fmt.Errorf("%w: user is already verified", apperrors.ErrInvalidStateTransition)
		}

		newStatus := models.KYCStatusUnverified
		if approve {
			newStatus = models.KYCStatusVerified
		}
		if err := tx.Model(&user).Update("kyc_status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update KYC status: %w", err)
		}
		user.KYCStatus = newStatus

		if approve {
			if err := s.releaseReferralBonus(tx, &user); err != nil {
				return err
			}
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "kyc_review",
			ResourceType: "user",
			ResourceID:   &user.ID,
			NewValues:    models.JSONB{"kyc_status": string(newStatus)},
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// releaseReferralBonus moves the signup bonus for a freshly verified referee
// out of the referrer's pending bucket into their balance.
func (s *AdminService) releaseReferralBonus(tx *gorm.DB, referee *models.User) error {
	var referral models.Referral
	err := tx.Where("referee_id = ? AND status = ?", referee.ID, models.ReferralStatusPending).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	bonus := s.settings.SignupBonus()
	if err := tx.Model(&referral).Update("status", models.ReferralStatusVerified).Error; err != nil {
		return fmt.Errorf("failed to verify referral: %w", err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", referral.ReferrerID).
		Updates(map[string]interface{}{
			"pending_bonus": gorm.Expr("GREATEST(pending_bonus - ?, 0)", bonus),
			"balance":       gorm.Expr("balance + ?", bonus),
		}).Error; err != nil {
		return fmt.Errorf("failed to release bonus: %w", err)
	}

	var referrer models.User
	if err := tx.First(&referrer, referral.ReferrerID).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	commission := &models.Commission{
		ReferrerID:   referral.ReferrerID,
		ReferrerName: referrer.Name,
		RefereeName:  referee.Name,
		Type:         models.CommissionTypeSignupBonus,
		Amount:       bonus,
		Status:       models.CommissionStatusPaid,
	}
	if err := tx.Create(commission).Error; err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}

	entry := &models.Transaction{
		UserID:       referral.ReferrerID,
		Type:         models.TransactionTypeReceive,
		Amount:       bonus,
		Currency:     models.CurrencyCNC,
		Status:       models.TransactionStatusCompleted,
		Counterparty: "Cincoin - bônus de indicação",
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record bonus transaction: %w", err)
	}
	return nil
}

// GetCommissions lists referral earnings for a user, or all of them when no
// user is given.
func (s *AdminService) GetCommissions(referrerID *uuid.UUID, params utils.PaginationParams) ([]models.Commission, int64, error) {
	query := s.db.Model(&models.Commission{})
	if referrerID != nil {
		query = query.Where("referrer_id = ?", *referrerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count commissions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var commissions []models.Commission
	if err := query.Find(&commissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch commissions: %w", err)
	}
	return commissions, total, nil
}

// GetReferrals lists a referrer's invited users.
func (s *AdminService) GetReferrals(referrerID uuid.UUID) ([]models.Referral, error) {
	var referrals []models.Referral
	if err := s.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch referrals: %w", err)
	}
	return referrals, nil
}

// GetSettings returns the well-known platform settings with their current
// values.
func (s *AdminService) GetSettings() (map[string]float64, error) {
	return map[string]float64{
		models.SettingTokenPriceBRL:             s.settings.TokenPriceBRL(),
		models.SettingTransferFeePercent:        s.settings.TransferFeePercent(),
		models.SettingWithdrawalFeePercent:      s.settings.WithdrawalFeePercent(),
		models.SettingSignupBonus:               s.settings.SignupBonus(),
		models.SettingPurchaseCommissionPercent: s.settings.PurchaseCommissionPercent(),
	}, nil
}

// settingCategories groups the well-known keys for the admin console.
var settingCategories = map[string]string{
	models.SettingTokenPriceBRL:             "exchange",
	models.SettingTransferFeePercent:        "fees",
	models.SettingWithdrawalFeePercent:      "fees",
	models.SettingSignupBonus:               "referrals",
	models.SettingPurchaseCommissionPercent: "referrals",
}

// UpdateSetting writes one platform setting and audits the change.
func (s *AdminService) UpdateSetting(adminID uuid.UUID, req *UpdateSettingRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	switch req.Key {
	case models.SettingTokenPriceBRL:
		if req.Value <= 0 {
			return fmt.Errorf("%w: token price must be positive", apperrors.ErrValidation)
		}
	case models.SettingTransferFeePercent, models.SettingWithdrawalFeePercent, models.SettingPurchaseCommissionPercent:
		if req.Value < 0 || req.Value > 100 {
			return fmt.Errorf("%w: fee must be between 0 and 100", apperrors.ErrValidation)
		}
	case models.SettingSignupBonus:
		if req.Value < 0 {
			return fmt.Errorf("%w: bonus cannot be negative", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown setting %s", apperrors.ErrValidation, req.Key)
	}

	old := s.settings.GetFloat(req.Key, 0)
	if err := s.settings.SetFloat(req.Key, settingCategories[req.Key], req.Value, adminID); err != nil {
		return err
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "setting_update",
		ResourceType: "admin_settings",
		OldValues:    models.JSONB{req.Key: old},
		NewValues:    models.JSONB{req.Key: req.Value},
	}
	if err := s.db.Create(audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// GetAuditLogs pages through the admin audit trail.
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Preload("User").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}
