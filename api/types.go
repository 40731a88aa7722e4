package api

import (
	"time"

	"github.com/google/uuid"
)

// ErrorResponse is the JSON error body returned to clients
type ErrorResponse struct {
	Error string `json:"error"`
}

// Plan keys for the product tiers
const (
	PlanFree       = "free"
	PlanDataPro    = "data_pro"
	PlanTrainPro   = "train_pro"
	PlanDeployPro  = "deploy_pro"
	PlanEnterprise = "enterprise"
)

// Billing intervals
const (
	IntervalMonthly = "monthly"
	IntervalYearly  = "yearly"
)

// Subscription lifecycle states
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusUnpaid   = "unpaid"
	StatusPaused   = "paused"
)

// PlanKeys lists the valid plan identifiers in catalog order
var PlanKeys = []string{PlanFree, PlanDataPro, PlanTrainPro, PlanDeployPro, PlanEnterprise}

// BillingIntervals lists the valid billing intervals
var BillingIntervals = []string{IntervalMonthly, IntervalYearly}

// SubscriptionStatuses lists the valid lifecycle states
var SubscriptionStatuses = []string{
	StatusActive, StatusTrialing, StatusPastDue, StatusCanceled, StatusUnpaid, StatusPaused,
}

// Subscription is a user's subscription to a plan.
// Invariant: CurrentPeriodStart < CurrentPeriodEnd.
type Subscription struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             string     `json:"user_id"`
	PlanKey            string     `json:"plan_key"`
	BillingInterval    string     `json:"billing_interval"`
	Status             string     `json:"status"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	PendingPlanKey     string     `json:"pending_plan_key,omitempty"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PaymentOrder records an order created with the payment provider,
// so payment verification and client retries can be reconciled.
type PaymentOrder struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	ProviderOrderID string    `json:"provider_order_id"`
	PlanKey         string    `json:"plan_key"`
	BillingInterval string    `json:"billing_interval"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	PaymentID       string    `json:"payment_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Payment order states
const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// CreateOrderResponse is the success body for POST /billing/create-order
type CreateOrderResponse struct {
	OrderID    string `json:"order_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	KeyID      string `json:"key_id"`
	CustomerID string `json:"customer_id"`
}

// VerifyPaymentResponse is the success body for POST /billing/verify-payment
type VerifyPaymentResponse struct {
	Success          bool      `json:"success"`
	SubscriptionID   string    `json:"subscription_id"`
	PlanKey          string    `json:"plan_key"`
	BillingInterval  string    `json:"billing_interval"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

// CreateSubscriptionResponse is the success body for POST /billing/create-subscription
type CreateSubscriptionResponse struct {
	SubscriptionID string     `json:"subscription_id"`
	Status         string     `json:"status"`
	TrialEnd       *time.Time `json:"trial_end,omitempty"`
}

// ChangePlanResponse is the success body for POST /billing/change-plan
type ChangePlanResponse struct {
	SubscriptionID string             `json:"subscription_id"`
	Proration      ProrationBreakdown `json:"proration"`
	EffectiveAt    string             `json:"effective_at"` // "immediate" or "period_end"
	OrderID        string             `json:"order_id,omitempty"`
	KeyID          string             `json:"key_id,omitempty"`
}
