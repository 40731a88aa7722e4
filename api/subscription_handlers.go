package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neuraldesk/billing/internal/slogging"
)

// createSubscriptionSchema declares the POST /billing/create-subscription body
var createSubscriptionSchema = Schema{
	planKeyField("plan_key", true),
	billingIntervalField("billing_interval", true),
	trialDaysField(),
	couponCodeField(),
}

// CreateSubscription handles POST /billing/create-subscription: creates
// a subscription row, trialing when trial days are requested, otherwise
// active immediately (free plan) or awaiting payment.
func (s *Server) CreateSubscription(c *gin.Context) {
	logger := slogging.Get()
	uid := userID(c)

	data, err := s.parseAndValidate(c, createSubscriptionSchema)
	if err != nil {
		HandleRequestError(c, err)
		return
	}

	planKey := data["plan_key"].(string)
	interval := data["billing_interval"].(string)

	if _, err := PlanPrice(planKey, interval); err != nil {
		HandleRequestError(c, InvalidInputError("Unknown plan or billing interval"))
		return
	}

	if existing, err := s.subscriptions.GetActiveByUser(c.Request.Context(), uid); err == nil {
		HandleRequestError(c, InvalidInputError(
			fmt.Sprintf("An active subscription already exists (%s)", existing.PlanKey)))
		return
	} else if err != ErrNotFound {
		logger.Error("subscription lookup failed for user %s: %v", uid, err)
		HandleRequestError(c, ServerError("Failed to create subscription"))
		return
	}

	now := s.now().UTC()
	sub := &Subscription{
		UserID:             uid,
		PlanKey:            planKey,
		BillingInterval:    interval,
		Status:             StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   addInterval(now, interval),
	}

	if days, ok := data["trial_days"].(float64); ok && days > 0 {
		trialEnd := now.AddDate(0, 0, int(days))
		sub.Status = StatusTrialing
		sub.TrialEnd = &trialEnd
	}

	if err := s.subscriptions.Create(c.Request.Context(), sub); err != nil {
		logger.Error("failed to create subscription for user %s: %v", uid, err)
		HandleRequestError(c, ServerError("Failed to create subscription"))
		return
	}

	c.JSON(http.StatusOK, CreateSubscriptionResponse{
		SubscriptionID: sub.ID.String(),
		Status:         sub.Status,
		TrialEnd:       sub.TrialEnd,
	})
}

// changePlanSchema declares the POST /billing/change-plan body
var changePlanSchema = Schema{
	{Name: "subscription_id", Type: TypeString, Required: true, Pattern: uuidV4Pattern},
	planKeyField("new_plan_key", true),
	billingIntervalField("billing_interval", true),
	{Name: "immediate", Type: TypeBoolean},
}

// ChangePlan handles POST /billing/change-plan: computes the prorated
// cost delta for a mid-cycle plan change. Upgrades are charged now via
// a provider order for the prorated amount; downgrades take effect at
// period end unless the caller asks for immediate effect.
func (s *Server) ChangePlan(c *gin.Context) {
	logger := slogging.Get()
	uid := userID(c)

	data, err := s.parseAndValidate(c, changePlanSchema)
	if err != nil {
		HandleRequestError(c, err)
		return
	}

	subID := uuid.MustParse(data["subscription_id"].(string))
	newPlanKey := data["new_plan_key"].(string)
	interval := data["billing_interval"].(string)
	immediate, _ := data["immediate"].(bool)

	sub, err := s.subscriptions.Get(c.Request.Context(), subID)
	if err == ErrNotFound {
		HandleRequestError(c, InvalidInputError("Subscription not found"))
		return
	}
	if err != nil {
		logger.Error("subscription lookup failed: %v", err)
		HandleRequestError(c, ServerError("Failed to change plan"))
		return
	}
	if sub.UserID != uid {
		// Do not reveal that the subscription exists
		HandleRequestError(c, InvalidInputError("Subscription not found"))
		return
	}
	if sub.Status != StatusActive && sub.Status != StatusTrialing {
		HandleRequestError(c, InvalidInputError(
			fmt.Sprintf("Subscription is %s and cannot change plans", sub.Status)))
		return
	}
	if sub.PlanKey == newPlanKey && sub.BillingInterval == interval {
		HandleRequestError(c, InvalidInputError("Subscription is already on that plan"))
		return
	}

	currentPrice, err := PlanPrice(sub.PlanKey, sub.BillingInterval)
	if err != nil {
		logger.Error("subscription %s references unknown plan %s: %v", sub.ID, sub.PlanKey, err)
		HandleRequestError(c, ServerError("Failed to change plan"))
		return
	}
	newPrice, err := PlanPrice(newPlanKey, interval)
	if err != nil {
		HandleRequestError(c, InvalidInputError("Unknown plan or billing interval"))
		return
	}

	now := s.now().UTC()
	breakdown := CalculateProration(sub.CurrentPeriodStart, sub.CurrentPeriodEnd, currentPrice, newPrice, now)

	resp := ChangePlanResponse{
		SubscriptionID: sub.ID.String(),
		Proration:      breakdown,
	}

	if breakdown.IsUpgrade && breakdown.ProratedAmount > 0 {
		planChangesTotal.WithLabelValues("upgrade").Inc()

		receipt := fmt.Sprintf("chg_%s", uuid.New().String()[:18])
		order, err := s.orders.CreateOrder(c.Request.Context(), breakdown.ProratedAmount, PlanCurrency, receipt, map[string]string{
			"user_id":         uid,
			"subscription_id": sub.ID.String(),
			"new_plan_key":    newPlanKey,
		})
		if err != nil {
			logger.Error("upgrade order creation failed for subscription %s: %v", sub.ID, err)
			HandleRequestError(c, ServerError("Failed to create upgrade order"))
			return
		}

		record := &PaymentOrder{
			UserID:          uid,
			ProviderOrderID: order.ID,
			PlanKey:         newPlanKey,
			BillingInterval: interval,
			Amount:          order.Amount,
			Currency:        order.Currency,
			Status:          OrderStatusCreated,
		}
		if err := s.paymentOrders.Create(c.Request.Context(), record); err != nil {
			logger.Error("failed to persist upgrade order %s: %v", order.ID, err)
			HandleRequestError(c, ServerError("Failed to create upgrade order"))
			return
		}

		resp.EffectiveAt = "immediate"
		resp.OrderID = order.ID
		resp.KeyID = s.razorpayKeyID
		c.JSON(http.StatusOK, resp)
		return
	}

	// Downgrade (or zero-cost change): no charge now. Apply at period
	// end by default; immediately only on explicit request.
	planChangesTotal.WithLabelValues("downgrade").Inc()
	if immediate {
		sub.PlanKey = newPlanKey
		sub.BillingInterval = interval
		sub.PendingPlanKey = ""
		resp.EffectiveAt = "immediate"
	} else {
		sub.PendingPlanKey = newPlanKey
		resp.EffectiveAt = "period_end"
	}

	if err := s.subscriptions.Update(c.Request.Context(), sub); err != nil {
		logger.Error("failed to update subscription %s: %v", sub.ID, err)
		HandleRequestError(c, ServerError("Failed to change plan"))
		return
	}

	c.JSON(http.StatusOK, resp)
}
