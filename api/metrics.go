package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_orders_created_total",
		Help: "Payment provider orders created",
	})

	paymentsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_payments_verified_total",
		Help: "Payment signature verification outcomes",
	}, []string{"result"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter",
	})

	planChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_plan_changes_total",
		Help: "Plan changes by direction",
	}, []string{"direction"})
)
