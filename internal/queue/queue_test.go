// internal/queue/queue_test.go
package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

func newOrder(createdAt time.Time, status models.SellOrderStatus) *models.SellOrder {
	order := &models.SellOrder{Status: status}
	order.ID = uuid.New()
	order.CreatedAt = createdAt
	return order
}

func TestTransitionsAdvanceForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(models.SellOrderStatusWaiting, models.SellOrderStatusProcessing))
	assert.True(t, CanTransition(models.SellOrderStatusProcessing, models.SellOrderStatusCompleted))

	// No skips, no regressions, no leaving completed.
	assert.False(t, CanTransition(models.SellOrderStatusWaiting, models.SellOrderStatusCompleted))
	assert.False(t, CanTransition(models.SellOrderStatusProcessing, models.SellOrderStatusWaiting))
	assert.False(t, CanTransition(models.SellOrderStatusCompleted, models.SellOrderStatusWaiting))
	assert.False(t, CanTransition(models.SellOrderStatusCompleted, models.SellOrderStatusProcessing))
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(models.SellOrderStatusWaiting)
	assert.True(t, ok)
	assert.Equal(t, models.SellOrderStatusProcessing, next)

	next, ok = NextStatus(models.SellOrderStatusProcessing)
	assert.True(t, ok)
	assert.Equal(t, models.SellOrderStatusCompleted, next)

	_, ok = NextStatus(models.SellOrderStatusCompleted)
	assert.False(t, ok)
}

func TestRenumberAssignsSequentialPositions(t *testing.T) {
	base := time.Now()
	orders := []*models.SellOrder{
		newOrder(base, models.SellOrderStatusWaiting),
		newOrder(base.Add(time.Second), models.SellOrderStatusWaiting),
		newOrder(base.Add(2*time.Second), models.SellOrderStatusWaiting),
	}

	Renumber(orders)

	assert.Equal(t, 1, orders[0].PositionInQueue)
	assert.Equal(t, 2, orders[1].PositionInQueue)
	assert.Equal(t, 3, orders[2].PositionInQueue)
}

func TestRenumberCompactsAfterRemoval(t *testing.T) {
	base := time.Now()
	first := newOrder(base, models.SellOrderStatusWaiting)
	second := newOrder(base.Add(time.Second), models.SellOrderStatusWaiting)
	third := newOrder(base.Add(2*time.Second), models.SellOrderStatusWaiting)

	Renumber([]*models.SellOrder{first, second, third})

	// Head of the queue leaves; the survivors shift down, order preserved.
	remaining := Renumber([]*models.SellOrder{second, third})

	assert.Equal(t, second.ID, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].PositionInQueue)
	assert.Equal(t, third.ID, remaining[1].ID)
	assert.Equal(t, 2, remaining[1].PositionInQueue)
}

func TestRenumberSkipsCompletedOrders(t *testing.T) {
	base := time.Now()
	completed := newOrder(base, models.SellOrderStatusCompleted)
	processing := newOrder(base.Add(time.Second), models.SellOrderStatusProcessing)
	waiting := newOrder(base.Add(2*time.Second), models.SellOrderStatusWaiting)

	Renumber([]*models.SellOrder{waiting, completed, processing})

	assert.Equal(t, 0, completed.PositionInQueue)
	assert.Equal(t, 1, processing.PositionInQueue)
	assert.Equal(t, 2, waiting.PositionInQueue)
}

func TestRenumberOrdersByInsertionTime(t *testing.T) {
	base := time.Now()
	late := newOrder(base.Add(time.Hour), models.SellOrderStatusWaiting)
	early := newOrder(base, models.SellOrderStatusWaiting)

	// Amount and price never influence ordering, only insertion time.
	late.Amount, late.Price = 100000, 10
	early.Amount, early.Price = 1, 0.01

	Renumber([]*models.SellOrder{late, early})

	assert.Equal(t, 1, early.PositionInQueue)
	assert.Equal(t, 2, late.PositionInQueue)
}

func TestTailPosition(t *testing.T) {
	assert.Equal(t, 1, TailPosition(0))
	assert.Equal(t, 4, TailPosition(3))
}
