// Package pricing implements the CinPlace payment-split arithmetic: how much
// of a product's price is paid in CNC tokens versus BRL, and whether a chosen
// percentage is acceptable under the seller's declared policy.
package pricing

import (
	"fmt"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
)

// Split is the result of dividing an effective price between the token and
// fiat legs. TokenAmount is in CNC units, FiatAmount in BRL. The legs always
// reconstruct the price: TokenAmount*tokenRate + FiatAmount == effectivePrice.
type Split struct {
	ChosenPercent float64 `json:"chosen_percent"`
	TokenAmount   float64 `json:"token_amount"`
	FiatAmount    float64 `json:"fiat_amount"`
}

// EffectivePrice applies an optional discount percentage to a base fiat
// price. discountPercent of zero leaves the price unchanged.
func EffectivePrice(priceFiat, discountPercent float64) (float64, error) {
	if priceFiat <= 0 {
		return 0, fmt.Errorf("%w: price must be positive, got %v", apperrors.ErrValidation, priceFiat)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return 0, fmt.Errorf("%w: discount percent must be within [0,100], got %v", apperrors.ErrValidation, discountPercent)
	}
	return priceFiat * (1 - discountPercent/100), nil
}

// ComputeSplit divides effectivePrice between CNC and BRL. percent is the
// share of the price paid in tokens; tokenRate is the BRL value of one CNC.
// Pure function, safe to call on every slider change for live preview.
func ComputeSplit(effectivePrice, percent, tokenRate float64) (Split, error) {
	if effectivePrice <= 0 {
		return Split{}, fmt.Errorf("%w: effective price must be positive, got %v", apperrors.ErrValidation, effectivePrice)
	}
	if percent < 0 || percent > 100 {
		return Split{}, fmt.Errorf("%w: percent must be within [0,100], got %v", apperrors.ErrValidation, percent)
	}
	if tokenRate <= 0 {
		return Split{}, fmt.Errorf("%w: token rate must be positive, got %v", apperrors.ErrValidation, tokenRate)
	}

	tokenValueBRL := effectivePrice * percent / 100
	return Split{
		ChosenPercent: percent,
		TokenAmount:   tokenValueBRL / tokenRate,
		FiatAmount:    effectivePrice - tokenValueBRL,
	}, nil
}
