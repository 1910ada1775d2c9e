// internal/services/negotiation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/pricing"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type NegotiationService struct {
	db *gorm.DB
}

type CreateNegotiationRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Percent   float64   `json:"percent" validate:"percent"`
}

type DecideNegotiationRequest struct {
	Approve bool `json:"approve"`
	Version int  `json:"version"`
}

func NewNegotiationService(db *gorm.DB) *NegotiationService {
	return &NegotiationService{db: db}
}

// CreateNegotiation opens a PENDING request. Only percents that the policy
// answers RequiresNegotiation for are negotiable; allowed percents do not need
// one and rejected percents cannot get one.
func (s *NegotiationService) CreateNegotiation(buyerID uuid.UUID, req *CreateNegotiationRequest) (*models.Negotiation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if product.SellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot negotiate on your own product", apperrors.ErrValidation)
	}

	acceptance, err := pricing.CheckAcceptance(policyOf(&product), req.Percent)
	if err != nil {
		return nil, err
	}
	switch acceptance {
	case pricing.Allowed:
		return nil, fmt.Errorf("%w: percent %.2f is already accepted, no negotiation needed", apperrors.ErrValidation, req.Percent)
	case pricing.Rejected:
		return nil, fmt.Errorf("%w: percent %.2f cannot be negotiated", apperrors.ErrPolicyRejected, req.Percent)
	}

	var buyer models.User
	if err := s.db.First(&buyer, buyerID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	// One open request per (product, buyer, percent) at a time.
	var pending int64
	if err := s.db.Model(&models.Negotiation{}).
		Where("product_id = ? AND buyer_id = ? AND requested_cin_percent = ? AND status = ?",
			req.ProductID, buyerID, req.Percent, models.NegotiationStatusPending).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: a pending negotiation for this percent already exists", apperrors.ErrDuplicateRequest)
	}

	negotiation := &models.Negotiation{
		ProductID:           product.ID,
		ProductName:         product.Name,
		BuyerID:             buyerID,
		BuyerName:           buyer.Name,
		SellerID:            product.SellerID,
		RequestedCinPercent: req.Percent,
		Status:              models.NegotiationStatusPending,
	}
	if err := s.db.Create(negotiation).Error; err != nil {
		return nil, fmt.Errorf("failed to create negotiation: %w", err)
	}
	return negotiation, nil
}

func (s *NegotiationService) GetNegotiation(id uuid.UUID) (*models.Negotiation, error) {
	var negotiation models.Negotiation
	if err := s.db.First(&negotiation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: negotiation", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &negotiation, nil
}

// GetNegotiations lists requests where the user is buyer or seller, filtered
// by status when one is given.
func (s *NegotiationService) GetNegotiations(userID uuid.UUID, status models.NegotiationStatus, params utils.PaginationParams) ([]models.Negotiation, int64, error) {
	query := s.db.Model(&models.Negotiation{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count negotiations: %w", err)
	}

	allowedSortFields := []string{"created_at", "requested_cin_percent"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var negotiations []models.Negotiation
	if err := query.Find(&negotiations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch negotiations: %w", err)
	}
	return negotiations, total, nil
}

// Decide settles a PENDING negotiation. The guarded UPDATE only matches the
// row while it is still pending at the version the caller saw, so a stale or
// racing decision comes back with zero rows affected.
func (s *NegotiationService) Decide(id uuid.UUID, deciderID uuid.UUID, deciderRole models.UserRole, req *DecideNegotiationRequest) (*models.Negotiation, error) {
	negotiation, err := s.GetNegotiation(id)
	if err != nil {
		return nil, err
	}

	if deciderRole != models.UserRoleAdmin && negotiation.SellerID != deciderID {
		return nil, fmt.Errorf("%w: only the seller may decide this negotiation", apperrors.ErrUnauthorized)
	}
	if negotiation.Decided() {
		return nil, fmt.Errorf("%w: negotiation is already %s", apperrors.ErrInvalidStateTransition, negotiation.Status)
	}

	newStatus := models.NegotiationStatusRejected
	if req.Approve {
		newStatus = models.NegotiationStatusApproved
	}
	now := time.Now()

	result := s.db.Model(&models.Negotiation{}).
		Where("id = ? AND status = ? AND version = ?", id, models.NegotiationStatusPending, req.Version).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"version":    gorm.Expr("version + 1"),
			"decided_by": deciderID,
			"decided_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to decide negotiation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: negotiation changed since it was read", apperrors.ErrConcurrentModification)
	}

	return s.GetNegotiation(id)
}
