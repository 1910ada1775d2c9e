// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/pricing"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type ProductService struct {
	db       *gorm.DB
	settings *SettingsService
	payments *PaymentService
}

type CreateProductRequest struct {
	Name             string            `json:"name" validate:"required,min=3,max=255"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category" validate:"required"`
	Images           []string          `json:"images,omitempty"`
	PriceFiat        float64           `json:"price_fiat" validate:"required,gt=0"`
	DiscountPercent  float64           `json:"discount_percent" validate:"percent"`
	AcceptType       models.AcceptType `json:"accept_type" validate:"required"`
	FixedCinPercent  *float64          `json:"fixed_cin_percent,omitempty"`
	MinCinPercent    *float64          `json:"min_cin_percent,omitempty"`
	MaxCinPercent    *float64          `json:"max_cin_percent,omitempty"`
	AllowNegotiation bool              `json:"allow_negotiation"`
}

type SplitPreviewRequest struct {
	Percent float64 `json:"percent" validate:"percent"`
}

type SplitPreview struct {
	EffectivePrice float64            `json:"effective_price"`
	TokenRate      float64            `json:"token_rate"`
	Split          pricing.Split      `json:"split"`
	Acceptance     pricing.Acceptance `json:"acceptance"`
}

type PurchaseRequest struct {
	Percent        float64 `json:"percent" validate:"percent"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

type PurchaseResponse struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"client_secret,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID *uuid.UUID `json:"seller_id,omitempty"`
}

func NewProductService(db *gorm.DB, settings *SettingsService, payments *PaymentService) *ProductService {
	return &ProductService{
		db:       db,
		settings: settings,
		payments: payments,
	}
}

// policyOf builds the pricing policy view of a product. Unset pointer fields
// default to zero, which Policy.Validate rejects when they are required.
func policyOf(product *models.Product) pricing.Policy {
	policy := pricing.Policy{
		AcceptType:       pricing.AcceptType(product.AcceptType),
		AllowNegotiation: product.AllowNegotiation,
	}
	if product.FixedCinPercent != nil {
		policy.FixedPercent = *product.FixedCinPercent
	}
	if product.MinCinPercent != nil {
		policy.MinPercent = *product.MinCinPercent
	}
	if product.MaxCinPercent != nil {
		policy.MaxPercent = *product.MaxCinPercent
	}
	return policy
}

func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var seller models.User
	if err := s.db.First(&seller, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: seller", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	product := &models.Product{
		SellerID:         sellerID,
		SellerName:       seller.Name,
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Images:           req.Images,
		PriceFiat:        req.PriceFiat,
		DiscountPercent:  req.DiscountPercent,
		AcceptType:       req.AcceptType,
		FixedCinPercent:  req.FixedCinPercent,
		MinCinPercent:    req.MinCinPercent,
		MaxCinPercent:    req.MaxCinPercent,
		AllowNegotiation: req.AllowNegotiation,
	}

	// The declared policy must be coherent before the listing goes live.
	if err := policyOf(product).Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(productID, sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, fmt.Errorf("%w: only the seller may update this product", apperrors.ErrUnauthorized)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.Images = req.Images
	product.PriceFiat = req.PriceFiat
	product.DiscountPercent = req.DiscountPercent
	product.AcceptType = req.AcceptType
	product.FixedCinPercent = req.FixedCinPercent
	product.MinCinPercent = req.MinCinPercent
	product.MaxCinPercent = req.MaxCinPercent
	product.AllowNegotiation = req.AllowNegotiation

	if err := policyOf(product).Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(productID, sellerID uuid.UUID) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return fmt.Errorf("%w: only the seller may delete this product", apperrors.ErrUnauthorized)
	}
	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) GetProduct(productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR description ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "price_fiat", "name"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// PreviewSplit computes the live token/fiat breakdown shown under the
// payment slider, together with the policy verdict for the chosen percent.
func (s *ProductService) PreviewSplit(productID uuid.UUID, percent float64) (*SplitPreview, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	effectivePrice, err := pricing.EffectivePrice(product.PriceFiat, product.DiscountPercent)
	if err != nil {
		return nil, err
	}

	rate := s.settings.TokenPriceBRL()
	split, err := pricing.ComputeSplit(effectivePrice, percent, rate)
	if err != nil {
		return nil, err
	}

	acceptance, err := pricing.CheckAcceptance(policyOf(product), percent)
	if err != nil {
		return nil, err
	}

	return &SplitPreview{
		EffectivePrice: effectivePrice,
		TokenRate:      rate,
		Split:          split,
		Acceptance:     acceptance,
	}, nil
}

// Purchase executes a split purchase: the token leg debits the buyer's CNC
// balance immediately, the fiat leg gets a Stripe payment intent. The
// idempotency key makes client retries return the original order instead of
// charging twice.
func (s *ProductService) Purchase(buyerID uuid.UUID, productID uuid.UUID, req *PurchaseRequest) (*PurchaseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		generated, err := utils.GenerateIdempotencyKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate idempotency key: %w", err)
		}
		idempotencyKey = generated
	}

	// Replay: a key we have seen resolves to the order it created.
	var existing models.Order
	if err := s.db.Where("idempotency_key = ?", idempotencyKey).First(&existing).Error; err == nil {
		return &PurchaseResponse{Order: &existing}, nil
	}

	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID == buyerID {
		return nil, fmt.Errorf("%w: cannot buy your own product", apperrors.ErrValidation)
	}

	effectivePrice, err := pricing.EffectivePrice(product.PriceFiat, product.DiscountPercent)
	if err != nil {
		return nil, err
	}

	rate := s.settings.TokenPriceBRL()
	split, err := pricing.ComputeSplit(effectivePrice, req.Percent, rate)
	if err != nil {
		return nil, err
	}

	acceptance, err := pricing.CheckAcceptance(policyOf(product), req.Percent)
	if err != nil {
		return nil, err
	}

	if acceptance != pricing.Allowed {
		// An approved negotiation for this exact percent overrides policy.
		approved, err := s.hasApprovedNegotiation(productID, buyerID, req.Percent)
		if err != nil {
			return nil, err
		}
		if !approved {
			if acceptance == pricing.RequiresNegotiation {
				return nil, fmt.Errorf("%w: percent %.2f requires seller negotiation", apperrors.ErrPolicyRejected, req.Percent)
			}
			return nil, fmt.Errorf("%w: percent %.2f is outside the seller's policy", apperrors.ErrPolicyRejected, req.Percent)
		}
	}

	order := &models.Order{
		ProductID:        product.ID,
		BuyerID:          buyerID,
		SellerID:         product.SellerID,
		TotalPrice:       effectivePrice,
		ChosenCinPercent: req.Percent,
		CinAmount:        split.TokenAmount,
		FiatAmount:       split.FiatAmount,
		IdempotencyKey:   idempotencyKey,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var buyer models.User
		if err := tx.First(&buyer, buyerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: buyer", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if buyer.Balance < split.TokenAmount {
			return fmt.Errorf("%w: need %.2f CNC, have %.2f", apperrors.ErrInsufficientBalance, split.TokenAmount, buyer.Balance)
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// Token leg settles on the spot.
		if split.TokenAmount > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", buyerID).
				Update("balance", gorm.Expr("balance - ?", split.TokenAmount)).Error; err != nil {
				return fmt.Errorf("failed to debit buyer: %w", err)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", product.SellerID).
				Update("balance", gorm.Expr("balance + ?", split.TokenAmount)).Error; err != nil {
				return fmt.Errorf("failed to credit seller: %w", err)
			}

			buyerEntry := &models.Transaction{
				UserID:       buyerID,
				Type:         models.TransactionTypeBuy,
				Amount:       split.TokenAmount,
				Currency:     models.CurrencyCNC,
				Status:       models.TransactionStatusCompleted,
				Counterparty: "CinPlace - " + product.SellerName,
				OrderID:      &order.ID,
			}
			sellerEntry := &models.Transaction{
				UserID:       product.SellerID,
				Type:         models.TransactionTypeReceive,
				Amount:       split.TokenAmount,
				Currency:     models.CurrencyCNC,
				Status:       models.TransactionStatusCompleted,
				Counterparty: buyer.Name,
				OrderID:      &order.ID,
			}
			if err := tx.Create(buyerEntry).Error; err != nil {
				return fmt.Errorf("failed to record buyer transaction: %w", err)
			}
			if err := tx.Create(sellerEntry).Error; err != nil {
				return fmt.Errorf("failed to record seller transaction: %w", err)
			}
		}

		if err := s.accrueReferralCommission(tx, &buyer, effectivePrice); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := &PurchaseResponse{Order: order}

	// Fiat leg: create the payment intent after the order exists so a Stripe
	// failure never loses the token settlement.
	if split.FiatAmount > 0 && s.payments != nil {
		intent, err := s.payments.CreateOrderPaymentIntent(order)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		order.PaymentReference = intent.PaymentID
		if err := s.db.Model(order).Update("payment_reference", intent.PaymentID).Error; err != nil {
			return nil, fmt.Errorf("failed to store payment reference: %w", err)
		}
		response.ClientSecret = intent.ClientSecret
	}

	return response, nil
}

// RefundOrder reverses an order: the fiat leg through Stripe, the token leg
// internally by moving the CNC back from seller to buyer. One refund per
// order; the refund ledger entry doubles as the marker.
func (s *ProductService) RefundOrder(orderID, adminID uuid.UUID) error {
	var order models.Order
	if err := s.db.Preload("Buyer").Preload("Seller").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order", apperrors.ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	var refunded int64
	if err := s.db.Model(&models.Transaction{}).
		Where("order_id = ? AND type = ?", orderID, models.TransactionTypeRefund).
		Count(&refunded).Error; err != nil {
		return fmt.Errorf("failed to check refunds: %w", err)
	}
	if refunded > 0 {
		return fmt.Errorf("%w: order already refunded", apperrors.ErrDuplicateRequest)
	}

	if order.FiatAmount > 0 && order.PaymentReference != "" && s.payments != nil {
		if err := s.payments.RefundOrderPayment(&order, order.FiatAmount); err != nil {
			return fmt.Errorf("failed to refund payment: %w", err)
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if order.CinAmount > 0 {
			var seller models.User
			if err := tx.First(&seller, order.SellerID).Error; err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			if seller.Balance < order.CinAmount {
				return fmt.Errorf("%w: seller holds %.2f CNC, refund needs %.2f",
					apperrors.ErrInsufficientBalance, seller.Balance, order.CinAmount)
			}

			if err := tx.Model(&models.User{}).Where("id = ?", order.SellerID).
				Update("balance", gorm.Expr("balance - ?", order.CinAmount)).Error; err != nil {
				return fmt.Errorf("failed to debit seller: %w", err)
			}
			if err := tx.Model(&models.User{}).Where("id = ?", order.BuyerID).
				Update("balance", gorm.Expr("balance + ?", order.CinAmount)).Error; err != nil {
				return fmt.Errorf("failed to credit buyer: %w", err)
			}

			sellerEntry := &models.Transaction{
				UserID:       order.SellerID,
				Type:         models.TransactionTypeSend,
				Amount:       order.CinAmount,
				Currency:     models.CurrencyCNC,
				Status:       models.TransactionStatusCompleted,
				Counterparty: order.Buyer.Name,
				Details:      "Estorno de compra",
				OrderID:      &order.ID,
			}
			if err := tx.Create(sellerEntry).Error; err != nil {
				return fmt.Errorf("failed to record seller reversal: %w", err)
			}
		}

		buyerEntry := &models.Transaction{
			UserID:       order.BuyerID,
			Type:         models.TransactionTypeRefund,
			Amount:       order.CinAmount,
			Currency:     models.CurrencyCNC,
			Status:       models.TransactionStatusCompleted,
			Counterparty: order.Seller.Name,
			Details:      "Estorno de compra",
			OrderID:      &order.ID,
		}
		if order.CinAmount == 0 {
			buyerEntry.Amount = order.FiatAmount
			buyerEntry.Currency = models.CurrencyBRL
		}
		if err := tx.Create(buyerEntry).Error; err != nil {
			return fmt.Errorf("failed to record refund: %w", err)
		}

		audit := &models.AuditLog{
			UserID:       &adminID,
			Action:       "order_refund",
			ResourceType: "orders",
			ResourceID:   &order.ID,
			NewValues:    models.JSONB{"cin_amount": order.CinAmount, "fiat_amount": order.FiatAmount},
		}
		if err := tx.Create(audit).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}

func (s *ProductService) hasApprovedNegotiation(productID, buyerID uuid.UUID, percent float64) (bool, error) {
	var count int64
	err := s.db.Model(&models.Negotiation{}).
		Where("product_id = ? AND buyer_id = ? AND requested_cin_percent = ? AND status = ?",
			productID, buyerID, percent, models.NegotiationStatusApproved).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check negotiations: %w", err)
	}
	return count > 0, nil
}

// accrueReferralCommission records a pending commission for the buyer's
// verified referrer, a percentage of the order total. Buyers without a
// referrer accrue nothing.
func (s *ProductService) accrueReferralCommission(tx *gorm.DB, buyer *models.User, orderTotal float64) error {
	percent := s.settings.PurchaseCommissionPercent()
	if percent <= 0 {
		return nil
	}

	var referral models.Referral
	err := tx.Preload("Referrer").
		Where("referee_id = ? AND status = ?", buyer.ID, models.ReferralStatusVerified).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up referral: %w", err)
	}

	commission := &models.Commission{
		ReferrerID:   referral.ReferrerID,
		ReferrerName: referral.Referrer.Name,
		RefereeName:  buyer.Name,
		Type:         models.CommissionTypePurchaseCommission,
		Amount:       orderTotal * percent / 100,
		BaseValue:    &orderTotal,
		Percentage:   &percent,
		Status:       models.CommissionStatusPending,
	}
	if err := tx.Create(commission).Error; err != nil {
		return fmt.Errorf("failed to record commission: %w", err)
	}
	return nil
}

func (s *ProductService) GetOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Preload("Product")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "total_price"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}
