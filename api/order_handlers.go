package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/neuraldesk/billing/internal/slogging"
)

// createOrderSchema declares the POST /billing/create-order body.
// Field order is the error-reporting order.
var createOrderSchema = Schema{
	planKeyField("plan_key", true),
	billingIntervalField("billing_interval", true),
	couponCodeField(),
	trialDaysField(),
}

// CreateOrder handles POST /billing/create-order: looks up the catalog
// price for the requested plan, creates a provider order and records it.
func (s *Server) CreateOrder(c *gin.Context) {
	logger := slogging.Get()
	uid := userID(c)

	data, err := s.parseAndValidate(c, createOrderSchema)
	if err != nil {
		HandleRequestError(c, err)
		return
	}

	planKey := data["plan_key"].(string)
	interval := data["billing_interval"].(string)

	price, err := PlanPrice(planKey, interval)
	if err != nil {
		HandleRequestError(c, InvalidInputError("Unknown plan or billing interval"))
		return
	}
	if price == 0 {
		HandleRequestError(c, InvalidInputError("The free plan does not require payment"))
		return
	}

	receipt := fmt.Sprintf("sub_%s", uuid.New().String()[:18])
	notes := map[string]string{
		"user_id":          uid,
		"plan_key":         planKey,
		"billing_interval": interval,
	}
	if coupon, ok := data["coupon_code"].(string); ok {
		notes["coupon_code"] = coupon
	}

	order, err := s.orders.CreateOrder(c.Request.Context(), price, PlanCurrency, receipt, notes)
	if err != nil {
		logger.Error("order creation failed for user %s plan %s: %v", uid, planKey, err)
		HandleRequestError(c, ServerError("Failed to create order"))
		return
	}

	record := &PaymentOrder{
		UserID:          uid,
		ProviderOrderID: order.ID,
		PlanKey:         planKey,
		BillingInterval: interval,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Status:          OrderStatusCreated,
	}
	if err := s.paymentOrders.Create(c.Request.Context(), record); err != nil {
		logger.Error("failed to persist order %s: %v", order.ID, err)
		HandleRequestError(c, ServerError("Failed to create order"))
		return
	}

	ordersCreatedTotal.Inc()
	c.JSON(http.StatusOK, CreateOrderResponse{
		OrderID:    order.ID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		KeyID:      s.razorpayKeyID,
		CustomerID: uid,
	})
}
