// Package queue holds the position and status rules for the exchange sell
// queue, separated from the service so the FIFO arithmetic stays testable
// without a database.
package queue

import (
	"sort"

	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

// validTransitions maps each sell-order status to the statuses it may move
// to. Status only advances forward; completed is terminal.
var validTransitions = map[models.SellOrderStatus][]models.SellOrderStatus{
	models.SellOrderStatusWaiting:    {models.SellOrderStatusProcessing},
	models.SellOrderStatusProcessing: {models.SellOrderStatusCompleted},
	models.SellOrderStatusCompleted:  {},
}

// CanTransition reports whether a sell order may move between the two states.
func CanTransition(from, to models.SellOrderStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStatus returns the status a sell order advances to, and false when it
// is already terminal.
func NextStatus(current models.SellOrderStatus) (models.SellOrderStatus, bool) {
	next, ok := validTransitions[current]
	if !ok || len(next) == 0 {
		return current, false
	}
	return next[0], true
}

// Renumber assigns contiguous 1..N positions to the pending (waiting or
// processing) orders, ordered by insertion time. Completed orders keep a zero
// position. The slice is renumbered in place and also returned.
func Renumber(orders []*models.SellOrder) []*models.SellOrder {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})

	position := 0
	for _, order := range orders {
		if order.Pending() {
			position++
			order.PositionInQueue = position
		} else {
			order.PositionInQueue = 0
		}
	}
	return orders
}

// TailPosition is the queue slot a newly enqueued order receives: one past
// the current pending count.
func TailPosition(pendingCount int64) int {
	return int(pendingCount) + 1
}
