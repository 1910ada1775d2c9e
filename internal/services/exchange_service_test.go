// internal/services/exchange_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

func TestQueueStatusesDefaultsToPendingPair(t *testing.T) {
	statuses, err := queueStatuses("")
	assert.NoError(t, err)
	assert.Equal(t, []models.SellOrderStatus{
		models.SellOrderStatusWaiting,
		models.SellOrderStatusProcessing,
	}, statuses)
}

func TestQueueStatusesSingleState(t *testing.T) {
	for _, filter := range []string{"waiting", "processing", "completed"} {
		statuses, err := queueStatuses(filter)
		assert.NoError(t, err)
		assert.Equal(t, []models.SellOrderStatus{models.SellOrderStatus(filter)}, statuses)
	}
}

func TestQueueStatusesRejectsUnknown(t *testing.T) {
	_, err := queueStatuses("cancelled")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDistributionOf(t *testing.T) {
	balances := []float64{50, 100, 250, 5000, 12000, 0, -3}

	bands := distributionOf(balances)
	assert.Len(t, bands, 4)

	// 50 and 100 land in the first band, the boundary inclusive.
	assert.Equal(t, int64(2), bands[0].Holders)
	assert.Equal(t, 150.0, bands[0].Supply)

	assert.Equal(t, int64(1), bands[1].Holders)
	assert.Equal(t, 250.0, bands[1].Supply)

	assert.Equal(t, int64(1), bands[2].Holders)
	assert.Equal(t, 5000.0, bands[2].Supply)

	assert.Equal(t, int64(1), bands[3].Holders)
	assert.Equal(t, 12000.0, bands[3].Supply)
}

func TestDistributionOfEmpty(t *testing.T) {
	bands := distributionOf(nil)
	assert.Len(t, bands, 4)
	for _, band := range bands {
		assert.Zero(t, band.Holders)
		assert.Zero(t, band.Supply)
	}
}
