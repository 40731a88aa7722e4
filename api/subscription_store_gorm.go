package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/neuraldesk/billing/internal/slogging"
)

// subscriptionModel is the GORM row for a subscription
type subscriptionModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             string    `gorm:"not null;index"`
	PlanKey            string    `gorm:"type:varchar(50);not null"`
	BillingInterval    string    `gorm:"type:varchar(16);not null"`
	Status             string    `gorm:"type:varchar(32);not null;index"`
	CurrentPeriodStart time.Time `gorm:"not null"`
	CurrentPeriodEnd   time.Time `gorm:"not null"`
	CancelAtPeriodEnd  bool      `gorm:"not null;default:false"`
	PendingPlanKey     string    `gorm:"type:varchar(50)"`
	TrialEnd           *time.Time
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

// paymentOrderModel is the GORM row for a provider payment order
type paymentOrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          string    `gorm:"not null;index"`
	ProviderOrderID string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PlanKey         string    `gorm:"type:varchar(50);not null"`
	BillingInterval string    `gorm:"type:varchar(16);not null"`
	Amount          int64     `gorm:"not null"`
	Currency        string    `gorm:"type:varchar(8);not null"`
	Status          string    `gorm:"type:varchar(16);not null"`
	PaymentID       string    `gorm:"type:varchar(100)"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (paymentOrderModel) TableName() string { return "payment_orders" }

// AutoMigrate creates or updates the billing tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&subscriptionModel{}, &paymentOrderModel{})
}

// GormSubscriptionStore implements SubscriptionStore using GORM
type GormSubscriptionStore struct {
	db *gorm.DB
}

// NewGormSubscriptionStore creates a GORM-backed subscription store
func NewGormSubscriptionStore(db *gorm.DB) *GormSubscriptionStore {
	return &GormSubscriptionStore{db: db}
}

// Get retrieves a subscription by id
func (s *GormSubscriptionStore) Get(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	var model subscriptionModel
	result := s.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", result.Error)
	}
	sub := subscriptionFromModel(model)
	return &sub, nil
}

// GetActiveByUser retrieves the user's current active or trialing subscription
func (s *GormSubscriptionStore) GetActiveByUser(ctx context.Context, userID string) (*Subscription, error) {
	var model subscriptionModel
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{StatusActive, StatusTrialing}).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription for user: %w", result.Error)
	}
	sub := subscriptionFromModel(model)
	return &sub, nil
}

// Create inserts a new subscription row
func (s *GormSubscriptionStore) Create(ctx context.Context, sub *Subscription) error {
	logger := slogging.Get()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if !sub.CurrentPeriodStart.Before(sub.CurrentPeriodEnd) {
		return fmt.Errorf("invalid subscription period: start %s is not before end %s",
			sub.CurrentPeriodStart, sub.CurrentPeriodEnd)
	}

	model := subscriptionToModel(*sub)
	result := s.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		logger.Error("failed to create subscription: user=%s plan=%s error=%v",
			sub.UserID, sub.PlanKey, result.Error)
		return fmt.Errorf("failed to create subscription: %w", result.Error)
	}

	sub.CreatedAt = model.CreatedAt
	sub.UpdatedAt = model.UpdatedAt
	logger.Info("subscription created: id=%s user=%s plan=%s status=%s",
		sub.ID, sub.UserID, sub.PlanKey, sub.Status)
	return nil
}

// Update saves subscription changes
func (s *GormSubscriptionStore) Update(ctx context.Context, sub *Subscription) error {
	logger := slogging.Get()

	if !sub.CurrentPeriodStart.Before(sub.CurrentPeriodEnd) {
		return fmt.Errorf("invalid subscription period: start %s is not before end %s",
			sub.CurrentPeriodStart, sub.CurrentPeriodEnd)
	}

	model := subscriptionToModel(*sub)
	result := s.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		logger.Error("failed to update subscription %s: %v", sub.ID, result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	sub.UpdatedAt = model.UpdatedAt
	return nil
}

// GormPaymentOrderStore implements PaymentOrderStore using GORM
type GormPaymentOrderStore struct {
	db *gorm.DB
}

// NewGormPaymentOrderStore creates a GORM-backed payment order store
func NewGormPaymentOrderStore(db *gorm.DB) *GormPaymentOrderStore {
	return &GormPaymentOrderStore{db: db}
}

// Create inserts a new payment order row
func (s *GormPaymentOrderStore) Create(ctx context.Context, order *PaymentOrder) error {
	logger := slogging.Get()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	model := orderToModel(*order)
	result := s.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		logger.Error("failed to record payment order %s: %v", order.ProviderOrderID, result.Error)
		return fmt.Errorf("failed to record payment order: %w", result.Error)
	}
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByProviderOrderID looks up an order by the provider's order id
func (s *GormPaymentOrderStore) GetByProviderOrderID(ctx context.Context, providerOrderID string) (*PaymentOrder, error) {
	var model paymentOrderModel
	result := s.db.WithContext(ctx).First(&model, "provider_order_id = ?", providerOrderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment order: %w", result.Error)
	}
	order := orderFromModel(model)
	return &order, nil
}

// Update saves payment order changes
func (s *GormPaymentOrderStore) Update(ctx context.Context, order *PaymentOrder) error {
	model := orderToModel(*order)
	result := s.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment order: %w", result.Error)
	}
	order.UpdatedAt = model.UpdatedAt
	return nil
}

func subscriptionToModel(sub Subscription) subscriptionModel {
	return subscriptionModel{
		ID:                 sub.ID,
		UserID:             sub.UserID,
		PlanKey:            sub.PlanKey,
		BillingInterval:    sub.BillingInterval,
		Status:             sub.Status,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		PendingPlanKey:     sub.PendingPlanKey,
		TrialEnd:           sub.TrialEnd,
		CreatedAt:          sub.CreatedAt,
		UpdatedAt:          sub.UpdatedAt,
	}
}

func subscriptionFromModel(model subscriptionModel) Subscription {
	return Subscription{
		ID:                 model.ID,
		UserID:             model.UserID,
		PlanKey:            model.PlanKey,
		BillingInterval:    model.BillingInterval,
		Status:             model.Status,
		CurrentPeriodStart: model.CurrentPeriodStart,
		CurrentPeriodEnd:   model.CurrentPeriodEnd,
		CancelAtPeriodEnd:  model.CancelAtPeriodEnd,
		PendingPlanKey:     model.PendingPlanKey,
		TrialEnd:           model.TrialEnd,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

func orderToModel(order PaymentOrder) paymentOrderModel {
	return paymentOrderModel{
		ID:              order.ID,
		UserID:          order.UserID,
		ProviderOrderID: order.ProviderOrderID,
		PlanKey:         order.PlanKey,
		BillingInterval: order.BillingInterval,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Status:          order.Status,
		PaymentID:       order.PaymentID,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func orderFromModel(model paymentOrderModel) PaymentOrder {
	return PaymentOrder{
		ID:              model.ID,
		UserID:          model.UserID,
		ProviderOrderID: model.ProviderOrderID,
		PlanKey:         model.PlanKey,
		BillingInterval: model.BillingInterval,
		Amount:          model.Amount,
		Currency:        model.Currency,
		Status:          model.Status,
		PaymentID:       model.PaymentID,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
