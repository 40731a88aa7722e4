package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neuraldesk/billing/internal/slogging"
)

// verifyPaymentSchema declares the POST /billing/verify-payment body
var verifyPaymentSchema = Schema{
	{Name: "razorpay_order_id", Type: TypeString, Required: true, MinLen: 1, MaxLen: 100},
	{Name: "razorpay_payment_id", Type: TypeString, Required: true, MinLen: 1, MaxLen: 100},
	{Name: "razorpay_signature", Type: TypeString, Required: true, MinLen: 1, MaxLen: 200},
	planKeyField("plan_key", true),
	billingIntervalField("billing_interval", true),
}

// VerifyPayment handles POST /billing/verify-payment: authenticates the
// checkout callback via its HMAC signature, then activates the plan.
// A captured status claimed by the callback means nothing on its own;
// only a matching signature does.
func (s *Server) VerifyPayment(c *gin.Context) {
	logger := slogging.Get()
	uid := userID(c)

	data, err := s.parseAndValidate(c, verifyPaymentSchema)
	if err != nil {
		HandleRequestError(c, err)
		return
	}

	orderIDStr := data["razorpay_order_id"].(string)
	paymentID := data["razorpay_payment_id"].(string)
	signature := data["razorpay_signature"].(string)
	planKey := data["plan_key"].(string)
	interval := data["billing_interval"].(string)

	if !VerifyPaymentSignature(orderIDStr, paymentID, signature, s.signingSecret) {
		paymentsVerifiedTotal.WithLabelValues("rejected").Inc()
		logger.Warn("payment signature mismatch: user=%s order=%s", uid, orderIDStr)
		HandleRequestError(c, InvalidInputError("Invalid payment signature"))
		return
	}
	paymentsVerifiedTotal.WithLabelValues("verified").Inc()

	// Mark the recorded order paid; an unknown order is suspicious but
	// the signature already proves provider origin, so log and continue.
	order, err := s.paymentOrders.GetByProviderOrderID(c.Request.Context(), orderIDStr)
	if err == nil {
		order.Status = OrderStatusPaid
		order.PaymentID = paymentID
		if err := s.paymentOrders.Update(c.Request.Context(), order); err != nil {
			logger.Error("failed to mark order %s paid: %v", orderIDStr, err)
		}
	} else if err != ErrNotFound {
		logger.Error("failed to look up order %s: %v", orderIDStr, err)
	} else {
		logger.Warn("verified payment for unrecorded order %s (user %s)", orderIDStr, uid)
	}

	sub, err := s.activateSubscription(c, uid, planKey, interval)
	if err != nil {
		logger.Error("failed to activate subscription for user %s: %v", uid, err)
		HandleRequestError(c, ServerError("Failed to activate subscription"))
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{
		Success:          true,
		SubscriptionID:   sub.ID.String(),
		PlanKey:          sub.PlanKey,
		BillingInterval:  sub.BillingInterval,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	})
}

// activateSubscription starts a fresh billing period on the paid plan,
// updating the user's existing subscription if one is live.
func (s *Server) activateSubscription(c *gin.Context, uid, planKey, interval string) (*Subscription, error) {
	now := s.now().UTC()
	periodEnd := addInterval(now, interval)

	sub, err := s.subscriptions.GetActiveByUser(c.Request.Context(), uid)
	if err == nil {
		sub.PlanKey = planKey
		sub.BillingInterval = interval
		sub.Status = StatusActive
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = periodEnd
		sub.CancelAtPeriodEnd = false
		sub.PendingPlanKey = ""
		sub.TrialEnd = nil
		if err := s.subscriptions.Update(c.Request.Context(), sub); err != nil {
			return nil, err
		}
		return sub, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	sub = &Subscription{
		UserID:             uid,
		PlanKey:            planKey,
		BillingInterval:    interval,
		Status:             StatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   periodEnd,
	}
	if err := s.subscriptions.Create(c.Request.Context(), sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// addInterval advances a period start by one billing interval
func addInterval(start time.Time, interval string) time.Time {
	if interval == IntervalYearly {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}
