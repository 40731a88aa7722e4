package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neuraldesk/billing/auth"
)

// maxBodyBytes caps request bodies; billing payloads are tiny
const maxBodyBytes = 64 * 1024

// Server holds the billing endpoints and their injected dependencies
type Server struct {
	verifier      auth.TokenVerifier
	keyResolver   *KeyResolver
	limiter       RateLimiter
	orders        OrderCreator
	razorpayKeyID string
	signingSecret string

	subscriptions SubscriptionStore
	paymentOrders PaymentOrderStore

	rateLimitMax    int
	rateLimitWindow time.Duration

	now func() time.Time
}

// ServerOptions bundles the dependencies for NewServer
type ServerOptions struct {
	Verifier        auth.TokenVerifier
	Limiter         RateLimiter
	Orders          OrderCreator
	RazorpayKeyID   string
	SigningSecret   string
	Subscriptions   SubscriptionStore
	PaymentOrders   PaymentOrderStore
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewServer creates a billing API server
func NewServer(opts ServerOptions) *Server {
	if opts.RateLimitMax <= 0 {
		opts.RateLimitMax = 10
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}
	return &Server{
		verifier:        opts.Verifier,
		keyResolver:     NewKeyResolver(opts.Verifier),
		limiter:         opts.Limiter,
		orders:          opts.Orders,
		razorpayKeyID:   opts.RazorpayKeyID,
		signingSecret:   opts.SigningSecret,
		subscriptions:   opts.Subscriptions,
		paymentOrders:   opts.PaymentOrders,
		rateLimitMax:    opts.RateLimitMax,
		rateLimitWindow: opts.RateLimitWindow,
		now:             time.Now,
	}
}

// RegisterHandlers registers the billing routes with the router
func (s *Server) RegisterHandlers(r *gin.Engine) {
	r.HandleMethodNotAllowed = true
	r.Use(CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	billing := r.Group("/billing")
	billing.Use(s.AuthMiddleware())
	{
		billing.POST("/create-order", s.RateLimitMiddleware("create-order"), s.CreateOrder)
		billing.POST("/verify-payment", s.RateLimitMiddleware("verify-payment"), s.VerifyPayment)
		billing.POST("/create-subscription", s.RateLimitMiddleware("create-subscription"), s.CreateSubscription)
		billing.POST("/change-plan", s.RateLimitMiddleware("change-plan"), s.ChangePlan)
	}
}

// parseAndValidate runs the shared body pipeline: decode JSON, sanitize
// recursively, then validate against the endpoint schema. The returned
// map contains only declared, sanitized, type-checked fields.
func (s *Server) parseAndValidate(c *gin.Context, schema Schema) (map[string]any, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, InvalidInputError("Invalid JSON body")
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, InvalidInputError("Invalid JSON body")
	}

	sanitized, _ := SanitizeJSON(raw).(map[string]any)
	result := Validate(sanitized, schema)
	if !result.Valid {
		return nil, InvalidInputError(result.Error)
	}
	return result.Data, nil
}

// userID returns the authenticated user id set by AuthMiddleware
func userID(c *gin.Context) string {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// SetClock overrides the wall clock (used by tests)
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}
