// internal/services/wallet_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
	"github.com/cincoin-asia/cincoin-backend/internal/utils"
)

type WalletService struct {
	db       *gorm.DB
	settings *SettingsService
	payments *PaymentService
}

type SendTokensRequest struct {
	RecipientEmail string  `json:"recipient_email" validate:"required,email"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Note           string  `json:"note,omitempty" validate:"max=255"`
}

type DepositRequest struct {
	AmountBRL float64 `json:"amount_brl" validate:"required,gt=0"`
}

type WithdrawRequest struct {
	AmountBRL float64 `json:"amount_brl" validate:"required,gt=0"`
	PixKey    string  `json:"pix_key" validate:"required,max=140"`
}

type DepositResponse struct {
	Transaction  *models.Transaction `json:"transaction"`
	ClientSecret string              `json:"client_secret,omitempty"`
}

type WalletBalance struct {
	Balance      float64 `json:"balance"`
	FiatBalance  float64 `json:"fiat_balance"`
	PendingBonus float64 `json:"pending_bonus"`
	TokenPrice   float64 `json:"token_price"`
	BalanceBRL   float64 `json:"balance_brl"`
}

type BalancePoint struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
}

func NewWalletService(db *gorm.DB, settings *SettingsService, payments *PaymentService) *WalletService {
	return &WalletService{db: db, settings: settings, payments: payments}
}

// GetBalance returns the user's balances with the CNC holding valued at the
// current token price.
func (s *WalletService) GetBalance(userID uuid.UUID) (*WalletBalance, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	price := s.settings.TokenPriceBRL()
	return &WalletBalance{
		Balance:      user.Balance,
		FiatBalance:  user.FiatBalance,
		PendingBonus: user.PendingBonus,
		TokenPrice:   price,
		BalanceBRL:   user.Balance * price,
	}, nil
}

// SendTokens moves CNC between users. The transfer fee comes out of the
// sender on top of the amount; the recipient receives the full amount.
func (s *WalletService) SendTokens(senderID uuid.UUID, req *SendTokensRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	feePercent := s.settings.TransferFeePercent()
	fee := req.Amount * feePercent / 100
	totalDebit := req.Amount + fee

	var entry *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sender models.User
		if err := tx.First(&sender, senderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: sender", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		var recipient models.User
		if err := tx.Where("email = ?", req.RecipientEmail).First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: recipient", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if recipient.ID == senderID {
			return fmt.Errorf("%w: cannot send tokens to yourself", apperrors.ErrValidation)
		}
		if sender.Balance < totalDebit {
			return fmt.Errorf("%w: need %.2f CNC including fee, have %.2f", apperrors.ErrInsufficientBalance, totalDebit, sender.Balance)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", senderID).
			Update("balance", gorm.Expr("balance - ?", totalDebit)).Error; err != nil {
			return fmt.Errorf("failed to debit sender: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", recipient.ID).
			Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
			return fmt.Errorf("failed to credit recipient: %w", err)
		}

		entry = &models.Transaction{
			UserID:       senderID,
			Type:         models.TransactionTypeSend,
			Amount:       req.Amount,
			Currency:     models.CurrencyCNC,
			Status:       models.TransactionStatusCompleted,
			Counterparty: recipient.Name,
			Details:      req.Note,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record send: %w", err)
		}

		received := &models.Transaction{
			UserID:       recipient.ID,
			Type:         models.TransactionTypeReceive,
			Amount:       req.Amount,
			Currency:     models.CurrencyCNC,
			Status:       models.TransactionStatusCompleted,
			Counterparty: sender.Name,
			Details:      req.Note,
		}
		if err := tx.Create(received).Error; err != nil {
			return fmt.Errorf("failed to record receive: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Deposit opens a Stripe payment for topping up the fiat balance. The
// transaction stays pending until the payment confirms.
func (s *WalletService) Deposit(userID uuid.UUID, req *DepositRequest) (*DepositResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	entry := &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionTypeDeposit,
		Amount:   req.AmountBRL,
		Currency: models.CurrencyBRL,
		Status:   models.TransactionStatusPending,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	intent, err := s.payments.CreateDepositPaymentIntent(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	if err := s.db.Model(entry).Update("details", intent.PaymentID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	return &DepositResponse{Transaction: entry, ClientSecret: intent.ClientSecret}, nil
}

// Withdraw debits the fiat balance and opens a pending withdrawal for the
// back office to pay out. The withdrawal fee comes out on top of the amount.
func (s *WalletService) Withdraw(userID uuid.UUID, req *WithdrawRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	feePercent := s.settings.WithdrawalFeePercent()
	fee := req.AmountBRL * feePercent / 100
	totalDebit := req.AmountBRL + fee

	var entry *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", apperrors.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if user.FiatBalance < totalDebit {
			return fmt.Errorf("%w: need R$ %.2f including fee, have R$ %.2f", apperrors.ErrInsufficientBalance, totalDebit, user.FiatBalance)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("fiat_balance", gorm.Expr("fiat_balance - ?", totalDebit)).Error; err != nil {
			return fmt.Errorf("failed to debit fiat balance: %w", err)
		}

		entry = &models.Transaction{
			UserID:   userID,
			Type:     models.TransactionTypeWithdrawal,
			Amount:   req.AmountBRL,
			Currency: models.CurrencyBRL,
			Status:   models.TransactionStatusPending,
			Details:  "PIX " + req.PixKey,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to record withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// depositSettleable checks that a ledger entry is this user's own pending
// deposit with a payment reference attached. Stripe is consulted separately.
func depositSettleable(entry *models.Transaction, userID uuid.UUID) error {
	if entry.UserID != userID {
		return fmt.Errorf("%w: deposit belongs to another user", apperrors.ErrUnauthorized)
	}
	if entry.Type != models.TransactionTypeDeposit || entry.Status != models.TransactionStatusPending {
		return fmt.Errorf("%w: transaction is not a pending deposit", apperrors.ErrInvalidStateTransition)
	}
	if entry.Details == "" {
		return fmt.Errorf("%w: deposit has no payment reference", apperrors.ErrValidation)
	}
	return nil
}

// ConfirmDeposit settles a pending deposit once Stripe reports the payment
// succeeded. The fiat balance is only credited for the caller's own deposit.
func (s *WalletService) ConfirmDeposit(userID, transactionID uuid.UUID) error {
	var entry models.Transaction
	if err := s.db.First(&entry, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: transaction", apperrors.ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}
	if err := depositSettleable(&entry, userID); err != nil {
		return err
	}

	status, err := s.payments.GetPaymentStatus(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to check payment: %w", err)
	}
	if status != "succeeded" {
		return fmt.Errorf("%w: payment is %s, not succeeded", apperrors.ErrValidation, status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded update so a concurrent confirm cannot credit twice.
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":       models.TransactionStatusCompleted,
				"processed_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete deposit: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: deposit already settled", apperrors.ErrInvalidStateTransition)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", entry.UserID).
			Update("fiat_balance", gorm.Expr("fiat_balance + ?", entry.Amount)).Error; err != nil {
			return fmt.Errorf("failed to credit deposit: %w", err)
		}
		return nil
	})
}

// GetTransactions lists the user's ledger, newest first by default.
func (s *WalletService) GetTransactions(userID uuid.UUID, txType models.TransactionType, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, total, nil
}

// GetBalanceHistory replays the CNC ledger over the last N days and returns
// one point per day, ending at the current balance.
func (s *WalletService) GetBalanceHistory(userID uuid.UUID, days int) ([]BalancePoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	since := time.Now().AddDate(0, 0, -days)
	var entries []models.Transaction
	if err := s.db.
		Where("user_id = ? AND currency = ? AND status = ? AND created_at >= ?",
			userID, models.CurrencyCNC, models.TransactionStatusCompleted, since).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ledger: %w", err)
	}

	// Walk backwards from today, undoing each day's net movement.
	points := make([]BalancePoint, days+1)
	balance := user.Balance
	idx := 0
	for day := 0; day <= days; day++ {
		date := time.Now().AddDate(0, 0, -day).Truncate(24 * time.Hour)
		points[days-day] = BalancePoint{Date: date, Balance: balance}
		for idx < len(entries) && !entries[idx].CreatedAt.Before(date) {
			switch entries[idx].Type {
			case models.TransactionTypeReceive, models.TransactionTypeExchange, models.TransactionTypeRefund:
				balance -= entries[idx].Amount
			case models.TransactionTypeSend, models.TransactionTypeBuy, models.TransactionTypeInvest:
				balance += entries[idx].Amount
			}
			idx++
		}
	}
	return points, nil
}
