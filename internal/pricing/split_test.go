// internal/pricing/split_test.go
package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
)

func TestComputeSplitReconstructsPrice(t *testing.T) {
	prices := []float64{0.01, 45, 90, 120, 12000, 850000}
	percents := []float64{0, 1, 19, 20, 30, 50, 60, 99, 100}
	rates := []float64{0.1, 0.5, 1, 2.37}

	for _, price := range prices {
		for _, percent := range percents {
			for _, rate := range rates {
				split, err := ComputeSplit(price, percent, rate)
				assert.NoError(t, err)
				assert.GreaterOrEqual(t, split.TokenAmount, 0.0)
				assert.GreaterOrEqual(t, split.FiatAmount, 0.0)

				reconstructed := split.TokenAmount*rate + split.FiatAmount
				assert.InDelta(t, price, reconstructed, 1e-9,
					"price=%v percent=%v rate=%v", price, percent, rate)
			}
		}
	}
}

func TestComputeSplitEdges(t *testing.T) {
	allFiat, err := ComputeSplit(500, 0, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, allFiat.TokenAmount)
	assert.Equal(t, 500.0, allFiat.FiatAmount)

	allToken, err := ComputeSplit(500, 100, 0.5)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, allToken.FiatAmount)
	assert.Equal(t, 1000.0, allToken.TokenAmount)
}

func TestComputeSplitValidation(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		percent float64
		rate    float64
	}{
		{"zero price", 0, 50, 0.5},
		{"negative price", -10, 50, 0.5},
		{"percent below range", 100, -1, 0.5},
		{"percent above range", 100, 101, 0.5},
		{"zero rate", 100, 50, 0},
		{"negative rate", 100, 50, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSplit(tt.price, tt.percent, tt.rate)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestComputeSplitKnownValues(t *testing.T) {
	// 100 BRL with a 10% discount, 30% in CNC at 0.50 BRL/CNC:
	// 54 CNC plus 63 BRL.
	price, err := EffectivePrice(100, 10)
	assert.NoError(t, err)
	assert.Equal(t, 90.0, price)

	split, err := ComputeSplit(price, 30, 0.5)
	assert.NoError(t, err)
	assert.InDelta(t, 54.0, split.TokenAmount, 1e-9)
	assert.InDelta(t, 63.0, split.FiatAmount, 1e-9)
}

func TestEffectivePrice(t *testing.T) {
	price, err := EffectivePrice(200, 0)
	assert.NoError(t, err)
	assert.Equal(t, 200.0, price)

	price, err = EffectivePrice(200, 100)
	assert.NoError(t, err)
	assert.True(t, math.Abs(price) < 1e-9)

	_, err = EffectivePrice(0, 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = EffectivePrice(200, 101)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
