// internal/services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/niceai/studio-backend/internal/catalog"
	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/models"
)

// PaymentService sells points top-ups through Stripe. Points convert to
// CNY at the catalog rate; the purchased amount rides along as payment
// intent metadata and is credited on confirmation.
type PaymentService struct {
	profiles *ProfileService
	config   *config.Config
}

type RechargeIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	PaymentID    string  `json:"payment_id"`
	Points       int     `json:"points"`
	AmountCNY    float64 `json:"amount_cny"`
}

func NewPaymentService(profiles *ProfileService, cfg *config.Config) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		profiles: profiles,
		config:   cfg,
	}
}

func (s *PaymentService) enabled() bool {
	return s.config.Payment.StripeSecretKey != ""
}

// CreateRechargeIntent opens a payment for the given number of points.
func (s *PaymentService) CreateRechargeIntent(ctx context.Context, key string, points int) (*RechargeIntentResponse, error) {
	if !s.enabled() {
		return nil, ErrPaymentNotConfigured
	}
	if points <= 0 {
		return nil, errors.New("points must be positive")
	}

	profile := s.profiles.Get(ctx, key)
	amountCNY := float64(points) / catalog.PointsPerCNY
	amountInCents := int64(amountCNY * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String("cny"),
	}
	params.AddMetadata("storage_key", key)
	params.AddMetadata("profile_id", profile.ID)
	params.AddMetadata("points", strconv.Itoa(points))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &RechargeIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Points:       points,
		AmountCNY:    amountCNY,
	}, nil
}

// ConfirmRecharge checks the payment intent with Stripe and credits the
// purchased points once it has succeeded. The storage key must match the
// one recorded on the intent.
func (s *PaymentService) ConfirmRecharge(ctx context.Context, key, paymentIntentID string) (*models.UserProfile, error) {
	if !s.enabled() {
		return nil, ErrPaymentNotConfigured
	}

	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	if pi.Metadata["storage_key"] != key {
		return nil, errors.New("payment intent does not belong to this session")
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("payment not completed, status %s", pi.Status)
	}

	points, err := strconv.Atoi(pi.Metadata["points"])
	if err != nil || points <= 0 {
		return nil, errors.New("payment intent carries no points amount")
	}

	return s.profiles.CreditPoints(ctx, key, points)
}
