package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway builds a gateway with its own API client, so the secret
// key stays scoped here instead of the package-global stripe.Key.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{
		api:      client.New(secretKey, nil),
		currency: currency,
	}
}

// CreateCheckoutSession creates a single-item payment-mode checkout session
// and returns its redirect URL.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Purpose),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("purpose", req.Purpose)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

// ListSucceededPayments pages through payment intents and keeps the
// succeeded ones.
func (g *StripeGateway) ListSucceededPayments(ctx context.Context, since time.Time) ([]Payment, error) {
	params := &stripe.PaymentIntentListParams{}
	params.Context = ctx
	if !since.IsZero() {
		params.CreatedRange = &stripe.RangeQueryParams{
			GreaterThanOrEqual: since.Unix(),
		}
	}

	payments := []Payment{}
	iter := g.api.PaymentIntents.List(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		if pi.Status != stripe.PaymentIntentStatusSucceeded {
			continue
		}
		payments = append(payments, Payment{
			ID:        pi.ID,
			Amount:    pi.Amount,
			Currency:  string(pi.Currency),
			Status:    string(pi.Status),
			Metadata:  pi.Metadata,
			CreatedAt: time.Unix(pi.Created, 0),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
