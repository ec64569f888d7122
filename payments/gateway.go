package payments

import (
	"context"
	"time"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock

// CheckoutRequest describes a one-off payment to collect: a membership
// purchase or an issue boost.
type CheckoutRequest struct {
	Purpose     string
	AmountCents int64
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Payment is a settled payment as reported by the processor.
type Payment struct {
	ID        string            `json:"id"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Status    string            `json:"status"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Gateway is the payment-processor boundary. The rest of the system only
// ever creates checkout sessions and lists succeeded payments.
type Gateway interface {
	// CreateCheckoutSession returns the URL the client should redirect to.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)

	// ListSucceededPayments returns succeeded payments, optionally limited
	// to those created at or after since (zero time means no lower bound).
	ListSucceededPayments(ctx context.Context, since time.Time) ([]Payment, error)
}
