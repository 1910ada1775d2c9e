// internal/services/exchange_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/queue"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

// ExchangeService is the CNC/BRL exchange: instant token buys against the
// fiat balance, and a FIFO queue for token sells that settle when the
// operator advances them.
type ExchangeService struct {
	db       *gorm.DB
	settings *SettingsService
}

type BuyTokensRequest struct {
	AmountBRL float64 `json:"amount_brl" validate:"required,gt=0"`
}

type CreateSellOrderRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type QueueStatus struct {
	TokenPrice   float64 `json:"token_price"`
	PendingCount int64   `json:"pending_count"`
	PendingTotal float64 `json:"pending_total_cnc"`
}

func NewExchangeService(db *gorm.DB, settings *SettingsService) *ExchangeService {
	return &ExchangeService{db: db, settings: settings}
}

// TokenPrice returns the current admin-set CNC price in BRL.
func (s *ExchangeService) TokenPrice() float64 {
	return s.settings.TokenPriceBRL()
}

// SetTokenPrice stores a new CNC price. Admin only; the handler enforces the
// role, the service enforces the value.
func (s *ExchangeService) SetTokenPrice(adminID uuid.UUID, price float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: token price must be positive", apperrors.ErrValidation)
	}
	return s.settings.SetFloat(models.SettingTokenPriceBRL, "exchange", price, adminID)
}

// BuyTokens converts fiat balance into CNC at the current price. Both legs
// move in one transaction.
func (s *ExchangeService) BuyTokens(userID uuid.UUID, req *BuyTokensRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	price := s.settings.TokenPriceBRL()
	tokenAmount := req.AmountBRL / price

	var entry *models.Transaction
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
			Updates(map[string]interface{}{
				"fiat_balance": gorm.Expr("fiat_balance - ?", req.AmountBRL),
				"balance":      gorm.Expr("balance + ?", tokenAmount),
			}).Error; err != nil {
			return fmt.Errorf("failed to update balances: %w", err)
		}

		entry = &models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypeExchange,
			Amount:   tokenAmount,
			Currency: models.CurrencyCNC,
			Status:   models.TransactionStatusCompleted,
			Details:  fmt.Sprintf("Bought %.2f CNC at %.2f BRL", tokenAmount, price),
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateSellOrder escrows the user's CNC and appends the order to the tail of
// the queue at the price in force right now.
func (s *ExchangeService) CreateSellOrder(userID uuid.UUID, req *CreateSellOrderRequest) (*models.SellOrder, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	price := s.settings.TokenPriceBRL()

	var order *models.SellOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if user.Balance < req.Amount {
			return fmt.Errorf("%w: need %.2f CNC, have %.2f", apperrors.ErrInsufficientBalance, req.Amount, user.Balance)
		}

		// Escrow the tokens while the order waits in line.
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance - ?", req.Amount)).Error; err != nil {
			return fmt.Errorf("failed to escrow tokens: %w", err)
		}

		var pendingCount int64
		if err := tx.Model(&models.SellOrder{}).
			Where("status IN ?", []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}).
			Count(&pendingCount).Error; err != nil {
			return fmt.Errorf("failed to count queue: %w", err)
		}

		order = &models.SellOrder{
			UserID:          userID,
			Amount:          req.Amount,
			Price:           price,
			TotalBrl:        req.Amount * price,
			Status:          models.SellOrderStatusWaiting,
			PositionInQueue: queue.TailPosition(pendingCount),
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create sell order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AdvanceSellOrder moves an order one step forward. Completing it pays out
// TotalBrl to the seller's fiat balance and renumbers the queue behind it.
func (s *ExchangeService) AdvanceSellOrder(orderID uuid.UUID) (*models.SellOrder, error) {
	var order models.SellOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: sell order", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		next, ok := queue.NextStatus(order.Status)
		if !ok {
			return fmt.Errorf("%w: sell order is already %s", apperrors.ErrInvalidStateTransition, order.Status)
		}

		order.Status = next
		if next == models.SellOrderStatusCompleted {
			now := time.Now()
			order.CompletedAt = &now
			order.PositionInQueue = 0

			if err := tx.Model(&models.User{}).Where("id = ?", order.UserID).
				Update("fiat_balance", gorm.Expr("fiat_balance + ?", order.TotalBrl)).Error; err != nil {
				return fmt.Errorf("failed to pay out sell order: %w", err)
			}

			entry := &models.Transaction{
				UserID:   order.UserID,
				Type:     models.TransactionTypeExchange,
				Amount:   order.TotalBrl,
				Currency: models.CurrencyBRL,
				Status:   models.TransactionStatusCompleted,
				Details:  fmt.Sprintf("Sold %.2f CNC at %.2f BRL", order.Amount, order.Price),
			}
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to record payout: %w", err)
			}
		}
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update sell order: %w", err)
		}

		if next == models.SellOrderStatusCompleted {
			if err := s.renumberQueue(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RemoveSellOrder cancels a still-waiting order, refunds the escrowed CNC and
// closes the gap it leaves in the queue. Only the owner (or an admin) may
// remove, and only while the order has not started processing.
func (s *ExchangeService) RemoveSellOrder(orderID, callerID uuid.UUID, callerRole models.UserRole) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.SellOrder
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: sell order", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if callerRole != models.UserRoleAdmin && order.UserID != callerID {
			return fmt.Errorf("%w: not your sell order", apperrors.ErrUnauthorized)
		}
		if order.Status != models.SellOrderStatusWaiting {
			return fmt.Errorf("%w: only waiting orders can be removed", apperrors.ErrInvalidStateTransition)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", order.UserID).
			Update("balance", gorm.Expr("balance + ?", order.Amount)).Error; err != nil {
			return fmt.Errorf("failed to refund tokens: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to remove sell order: %w", err)
		}
		return s.renumberQueue(tx)
	})
}

// queueStatuses resolves the optional status filter. Empty means the pending
// pair shown on the exchange page.
func queueStatuses(filter string) ([]models.SellOrderStatus, error) {
	switch status := models.SellOrderStatus(filter); status {
	case "":
		return []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}, nil
	case models.SellOrderStatusWaiting, models.SellOrderStatusProcessing, models.SellOrderStatusCompleted:
		return []models.SellOrderStatus{status}, nil
	}
	return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, filter)
}

// GetQueue lists the queue in FIFO order, oldest first. An optional status
// narrows the listing to one state, including completed orders.
func (s *ExchangeService) GetQueue(statusFilter string, params utils.PaginationParams) ([]models.SellOrder, int64, error) {
	statuses, err := queueStatuses(statusFilter)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.SellOrder{}).Where("status IN ?", statuses)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count queue: %w", err)
	}

	// Completed orders carry position 0, so break ties by age.
	query = query.Order("position_in_queue ASC, created_at ASC")
	query = utils.ApplyPagination(query, params)

	var orders []models.SellOrder
	if err := query.Preload("User").Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch queue: %w", err)
	}
	return orders, total, nil
}

// GetUserSellOrders lists a user's own orders, pending and completed.
func (s *ExchangeService) GetUserSellOrders(userID uuid.UUID, params utils.PaginationParams) ([]models.SellOrder, int64, error) {
	query := s.db.Model(&models.SellOrder{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sell orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.SellOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sell orders: %w", err)
	}
	return orders, total, nil
}

// GetQueueStatus is the summary shown on the exchange page.
func (s *ExchangeService) GetQueueStatus() (*QueueStatus, error) {
	status := &QueueStatus{TokenPrice: s.settings.TokenPriceBRL()}

	pending := []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}
	if err := s.db.Model(&models.SellOrder{}).
		Where("status IN ?", pending).
		Count(&status.PendingCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count queue: %w", err)
	}

	var total *float64
	if err := s.db.Model(&models.SellOrder{}).
		Where("status IN ?", pending).
		Select("SUM(amount)").Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to sum queue: %w", err)
	}
	if total != nil {
		status.PendingTotal = *total
	}
	return status, nil
}

type SupplyBand struct {
	Label   string  `json:"label"`
	Holders int64   `json:"holders"`
	Supply  float64 `json:"supply_cnc"`
}

type TransparencyReport struct {
	TokenPriceBRL     float64      `json:"token_price_brl"`
	CirculatingSupply float64      `json:"circulating_supply_cnc"`
	EscrowedSupply    float64      `json:"escrowed_supply_cnc"`
	TotalSupply       float64      `json:"total_supply_cnc"`
	Holders           int64        `json:"holders"`
	Distribution      []SupplyBand `json:"distribution"`
}

// supplyBandBounds carves holders into the ranges shown on the transparency
// page. The last band is open-ended.
var supplyBandBounds = []struct {
	label string
	upTo  float64
}{
	{"0-100", 100},
	{"100-1k", 1000},
	{"1k-10k", 10000},
	{"10k+", 0},
}

// distributionOf buckets positive balances into the supply bands.
func distributionOf(balances []float64) []SupplyBand {
	bands := make([]SupplyBand, len(supplyBandBounds))
	for i, bound := range supplyBandBounds {
		bands[i].Label = bound.label
	}
	for _, balance := range balances {
		if balance <= 0 {
			continue
		}
		idx := len(bands) - 1
		for i, bound := range supplyBandBounds {
			if bound.upTo > 0 && balance <= bound.upTo {
				idx = i
				break
			}
		}
		bands[idx].Holders++
		bands[idx].Supply += balance
	}
	return bands
}

// GetTransparency is the public supply report: how much CNC circulates in
// wallets, how much sits escrowed in the sell queue, and who holds it.
func (s *ExchangeService) GetTransparency() (*TransparencyReport, error) {
	report := &TransparencyReport{TokenPriceBRL: s.settings.TokenPriceBRL()}

	var balances []float64
	if err := s.db.Model(&models.User{}).
		Where("balance > 0").
		Pluck("balance", &balances).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}
	report.Holders = int64(len(balances))
	for _, balance := range balances {
		report.CirculatingSupply += balance
	}

	var escrowed *float64
	pending := []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}
	if err := s.db.Model(&models.SellOrder{}).
		Where("status IN ?", pending).
		Select("SUM(amount)").Scan(&escrowed).Error; err != nil {
		return nil, fmt.Errorf("failed to sum escrow: %w", err)
	}
	if escrowed != nil {
		report.EscrowedSupply = *escrowed
	}

	report.TotalSupply = report.CirculatingSupply + report.EscrowedSupply
	report.Distribution = distributionOf(balances)
	return report, nil
}

// renumberQueue reloads every non-completed order and rewrites positions so
// they stay contiguous from 1.
func (s *ExchangeService) renumberQueue(tx *gorm.DB) error {
	var pending []*models.SellOrder
	if err := tx.
		Where("status IN ?", []models.SellOrderStatus{models.SellOrderStatusWaiting, models.SellOrderStatusProcessing}).
		Find(&pending).Error; err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	for _, order := range queue.Renumber(pending) {
		if err := tx.Model(&models.SellOrder{}).Where("id = ?", order.ID).
			Update("position_in_queue", order.PositionInQueue).Error; err != nil {
			return fmt.Errorf("failed to renumber queue: %w", err)
		}
	}
	return nil
}
