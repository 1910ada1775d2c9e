// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/config"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	settings *SettingsService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name        string                 `json:"name" validate:"required,min=2,max=100"`
	Email       string                 `json:"email" validate:"required,email"`
	Password    string                 `json:"password" validate:"required,strong_password"`
	Role        models.UserRole        `json:"role,omitempty"`
	ReferrerID  *uuid.UUID             `json:"referrer_id,omitempty"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, settings *SettingsService) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		settings: settings,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrDuplicateRequest)
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleUser
	}
	// Admin accounts are only created by seeding or by other admins.
	if role != models.UserRoleUser && role != models.UserRoleCompany {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, role)
	}

	// Create new user
	user := &models.User{
		Name:        req.Name,
		Email:       req.Email,
		Role:        role,
		Status:      models.UserStatusActive,
		KYCStatus:   models.KYCStatusPending,
		ProfileData: models.JSONB(req.ProfileData),
	}

	// Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Save user, registering the referral when one was supplied
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if req.ReferrerID != nil {
			var referrer models.User
			if err := tx.First(&referrer, *req.ReferrerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: referrer", apperrors.ErrNotFound)
				}
				return fmt.Errorf("database error: %w", err)
			}

			referral := &models.Referral{
				ReferrerID: referrer.ID,
				RefereeID:  &user.ID,
				Name:       user.Name,
				Status:     models.ReferralStatusPending,
			}
			if err := tx.Create(referral).Error; err != nil {
				return fmt.Errorf("failed to create referral: %w", err)
			}

			// Bonus stays pending until the new account passes KYC.
			referrer.PendingBonus += s.settings.SignupBonus()
			if err := tx.Save(&referrer).Error; err != nil {
				return fmt.Errorf("failed to update referrer bonus: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check if user is suspended or banned
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is %s", apperrors.ErrUnauthorized, user.Status)
	}

	// Verify password
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	// Update last login time
	now := time.Now()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token subject", apperrors.ErrUnauthorized)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("%w: account is %s", apperrors.ErrUnauthorized, user.Status)
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Name,
		string(user.Role),
		string(user.KYCStatus),
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}
