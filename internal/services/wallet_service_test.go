// internal/services/wallet_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

func pendingDeposit(userID uuid.UUID) *models.Transaction {
	return &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionTypeDeposit,
		Amount:   100,
		Currency: models.CurrencyBRL,
		Status:   models.TransactionStatusPending,
		Details:  "pi_123",
	}
}

func TestDepositSettleable(t *testing.T) {
	owner := uuid.New()

	assert.NoError(t, depositSettleable(pendingDeposit(owner), owner))
}

func TestDepositSettleableRejectsOtherUsers(t *testing.T) {
	owner := uuid.New()

	err := depositSettleable(pendingDeposit(owner), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDepositSettleableRejectsSettledDeposit(t *testing.T) {
	owner := uuid.New()

	entry := pendingDeposit(owner)
	entry.Status = models.TransactionStatusCompleted
	assert.ErrorIs(t, depositSettleable(entry, owner), apperrors.ErrInvalidStateTransition)
}

func TestDepositSettleableRejectsNonDeposits(t *testing.T) {
	owner := uuid.New()

	entry := pendingDeposit(owner)
	entry.Type = models.TransactionTypeSend
	assert.ErrorIs(t, depositSettleable(entry, owner), apperrors.ErrInvalidStateTransition)
}

func TestDepositSettleableRequiresPaymentReference(t *testing.T) {
	owner := uuid.New()

	entry := pendingDeposit(owner)
	entry.Details = ""
	assert.ErrorIs(t, depositSettleable(entry, owner), apperrors.ErrValidation)
}
