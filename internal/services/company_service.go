// internal/services/company_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

// CompanyService backs the Cinbusca directory: physical businesses that
// accept CNC, with their declared split and a validation workflow for new
// registrations.
type CompanyService struct {
	db      *gorm.DB
	storage *StorageService
}

type RegisterCompanyRequest struct {
	Name           string  `json:"name" validate:"required,min=3,max=255"`
	Category       string  `json:"category" validate:"required"`
	CNPJ           string  `json:"cnpj" validate:"required,cnpj"`
	OwnerName      string  `json:"owner_name" validate:"required,min=3,max=100"`
	PercentCincoin float64 `json:"percent_cincoin" validate:"percent"`
	Address        string  `json:"address" validate:"required,max=255"`
	City           string  `json:"city" validate:"required,max=100"`
	State          string  `json:"state" validate:"required,len=2"`
	Phone          string  `json:"phone,omitempty" validate:"max=20"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

type CompanySearchParams struct {
	utils.PaginationParams
	City   string `json:"city,omitempty"`
	Status models.CompanyStatus
}

type CompanyDocuments struct {
	CNPJCardURL      string `json:"cnpj_card_url,omitempty"`
	DocumentPhotoURL string `json:"document_photo_url,omitempty"`
}

func NewCompanyService(db *gorm.DB, storage *StorageService) *CompanyService {
	return &CompanyService{db: db, storage: storage}
}

// Register files a new company in PENDING_VALIDATION. The declared split must
// cover the full price.
func (s *CompanyService) Register(ownerID uuid.UUID, req *RegisterCompanyRequest) (*models.Company, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var existing int64
	if err := s.db.Model(&models.Company{}).
		Where("cnpj = ?", req.CNPJ).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: CNPJ already registered", apperrors.ErrDuplicateRequest)
	}

	company := &models.Company{
		OwnerID:        ownerID,
		Name:           req.Name,
		Category:       req.Category,
		CNPJ:           req.CNPJ,
		OwnerName:      req.OwnerName,
		PercentCincoin: req.PercentCincoin,
		PercentBRL:     100 - req.PercentCincoin,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Phone:          req.Phone,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         models.CompanyStatusPendingValidation,
	}
	if err := s.db.Create(company).Error; err != nil {
		return nil, fmt.Errorf("failed to register company: %w", err)
	}
	return company, nil
}

// AttachDocuments stores the validation document URLs after upload. Only the
// owner may attach, and only while validation is pending.
func (s *CompanyService) AttachDocuments(companyID, ownerID uuid.UUID, docs *CompanyDocuments) (*models.Company, error) {
	company, err := s.GetCompany(companyID)
	if err != nil {
		return nil, err
	}
	if company.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: not your company", apperrors.ErrUnauthorized)
	}
	if company.Status != models.CompanyStatusPendingValidation {
		return nil, fmt.Errorf("%w: company is already %s", apperrors.ErrInvalidStateTransition, company.Status)
	}

	updates := map[string]interface{}{}
	if docs.CNPJCardURL != "" {
		updates["cnpj_card_url"] = docs.CNPJCardURL
	}
	if docs.DocumentPhotoURL != "" {
		updates["document_photo_url"] = docs.DocumentPhotoURL
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no documents given", apperrors.ErrValidation)
	}

	if err := s.db.Model(company).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to attach documents: %w", err)
	}
	return s.GetCompany(companyID)
}

func (s *CompanyService) GetCompany(companyID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &company, nil
}

// GetCompanies lists the public directory. Non-admin callers only ever see
// ACTIVE entries.
func (s *CompanyService) GetCompanies(params CompanySearchParams, includeAll bool) ([]models.Company, int64, error) {
	query := s.db.Model(&models.Company{})

	if !includeAll {
		query = query.Where("status = ?", models.CompanyStatusActive)
	} else if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.City != "" {
		query = query.Where("city ILIKE ?", params.City)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var companies []models.Company
	if err := query.Find(&companies).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch companies: %w", err)
	}
	return companies, total, nil
}

// DocumentPreview returns short-lived links to the validation documents for
// the admin review screen. Values that are already full URLs (local dev)
// pass through untouched.
func (s *CompanyService) DocumentPreview(companyID uuid.UUID) (*CompanyDocuments, error) {
	company, err := s.GetCompany(companyID)
	if err != nil {
		return nil, err
	}

	docs := &CompanyDocuments{}
	if company.CNPJCardURL != "" {
		docs.CNPJCardURL = s.presignIfKey(company.CNPJCardURL)
	}
	if company.DocumentPhotoURL != "" {
		docs.DocumentPhotoURL = s.presignIfKey(company.DocumentPhotoURL)
	}
	return docs, nil
}

func (s *CompanyService) presignIfKey(value string) string {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	url, err := s.storage.PresignedURL(value, 15*time.Minute)
	if err != nil {
		return value
	}
	return url
}

// Review settles a pending registration. Approval also upgrades the owner's
// role so they can list products on CinPlace.
func (s *CompanyService) Review(companyID, adminID uuid.UUID, approve bool) (*models.Company, error) {
	var company models.Company
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&company, companyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: company", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if company.Status != models.CompanyStatusPendingValidation {
			return fmt.Errorf("%w: company is already %s", apperrors.ErrInvalidStateTransition, company.Status)
		}

		newStatus := models.CompanyStatusRejected
		if approve {
			newStatus = models.CompanyStatusActive
		}
		if err := tx.Model(&company).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to review company: %w", err)
		}
		company.Status = newStatus

		if approve {
			if err := tx.Model(&models.User{}).
				Where("id = ? AND role = ?", company.OwnerID, models.UserRoleUser).
				Update("role", models.UserRoleCompany).Error; err != nil {
				return fmt.Errorf("failed to upgrade owner role: %w", err)
			}
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "company_review",
			ResourceType: "company",
			ResourceID:   &company.ID,
			NewValues:    models.JSONB{"status": string(newStatus), "reviewed_at": time.Now()},
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &company, nil
}
