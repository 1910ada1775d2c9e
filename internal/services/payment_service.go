// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
	"github.com/cincoin-asia/cincoin-backend/internal/config"
	"github.com/cincoin-asia/cincoin-backend/internal/models"
)

// PaymentService wraps Stripe for the fiat legs of the platform: the BRL
// portion of split purchases and wallet deposits. CNC movements never touch
// Stripe.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreateOrderPaymentIntent opens a Stripe payment for the fiat leg of an
// order. Amounts go to Stripe in centavos.
func (s *PaymentService) CreateOrderPaymentIntent(order *models.Order) (*PaymentIntentResponse, error) {
	if order.FiatAmount <= 0 {
		return nil, fmt.Errorf("%w: order has no fiat leg", apperrors.ErrValidation)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.FiatAmount * 100)),
		Currency: stripe.String("brl"),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", order.BuyerID.String())
	params.AddMetadata("kind", "order")

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// CreateDepositPaymentIntent opens a Stripe payment for a wallet top-up.
func (s *PaymentService) CreateDepositPaymentIntent(transaction *models.Transaction) (*PaymentIntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(transaction.Amount * 100)),
		Currency: stripe.String("brl"),
	}
	params.AddMetadata("transaction_id", transaction.ID.String())
	params.AddMetadata("user_id", transaction.UserID.String())
	params.AddMetadata("kind", "deposit")

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// GetPaymentStatus looks up the live status of a payment intent.
func (s *PaymentService) GetPaymentStatus(paymentIntentID string) (string, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get payment intent: %w", err)
	}
	return string(pi.Status), nil
}

// RefundOrderPayment refunds the fiat leg of an order through Stripe. The
// token leg is settled internally and is not Stripe's to reverse.
func (s *PaymentService) RefundOrderPayment(order *models.Order, amount float64) error {
	if order.PaymentReference == "" {
		return errors.New("order has no payment reference")
	}
	if amount <= 0 || amount > order.FiatAmount {
		amount = order.FiatAmount
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(order.PaymentReference),
		Amount:        stripe.Int64(int64(amount * 100)),
		Reason:        stripe.String("requested_by_customer"),
	}
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}
	return nil
}
