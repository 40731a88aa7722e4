package api

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when no row matches
var ErrNotFound = errors.New("not found")

// SubscriptionStore persists subscription lifecycle state
type SubscriptionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetActiveByUser(ctx context.Context, userID string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
}

// PaymentOrderStore records provider orders so payment verification and
// client retries can be reconciled against what was actually created
type PaymentOrderStore interface {
	Create(ctx context.Context, order *PaymentOrder) error
	GetByProviderOrderID(ctx context.Context, providerOrderID string) (*PaymentOrder, error)
	Update(ctx context.Context, order *PaymentOrder) error
}
