// internal/models/user_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPasswordHashing(t *testing.T) {
	user := &User{}

	err := user.SetPassword("SecurePass123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "SecurePass123!", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("SecurePass123!"))
	assert.Error(t, user.CheckPassword("WrongPass123!"))
}

func TestNegotiationDecided(t *testing.T) {
	n := &Negotiation{Status: NegotiationStatusPending}
	assert.False(t, n.Decided())

	n.Status = NegotiationStatusApproved
	assert.True(t, n.Decided())

	n.Status = NegotiationStatusRejected
	assert.True(t, n.Decided())
}

func TestSellOrderPending(t *testing.T) {
	order := &SellOrder{Status: SellOrderStatusWaiting}
	assert.True(t, order.Pending())

	order.Status = SellOrderStatusProcessing
	assert.True(t, order.Pending())

	order.Status = SellOrderStatusCompleted
	assert.False(t, order.Pending())
}

func TestJSONBRoundTrip(t *testing.T) {
	original := JSONB{"key": "value", "count": float64(3)}

	raw, err := original.Value()
	assert.NoError(t, err)

	var decoded JSONB
	assert.NoError(t, decoded.Scan(raw))
	assert.Equal(t, original, decoded)
}
