package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuraldesk/billing/internal/slogging"
)

// CORS middleware to handle Cross-Origin Resource Sharing.
// Preflight OPTIONS requests are answered here with no auth required.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// AuthMiddleware verifies the bearer token and stores the user id in
// the request context. Failures are a generic 401 with no detail on why.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := slogging.Get()

		token := bearerToken(c)
		if token == "" {
			HandleRequestError(c, UnauthorizedError())
			c.Abort()
			return
		}

		userID, err := s.verifier.VerifyToken(c.Request.Context(), token)
		if err != nil || userID == "" {
			logger.Debug("token rejected: %v", err)
			HandleRequestError(c, UnauthorizedError())
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// RateLimitMiddleware enforces the fixed-window limit for one endpoint
// class. The limit key combines the class with the resolved identity so
// each endpoint class has an independent budget per caller.
func (s *Server) RateLimitMiddleware(endpointClass string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		key := endpointClass + ":" + s.keyResolver.Resolve(c)
		decision := s.limiter.Admit(c.Request.Context(), key, s.rateLimitMax, s.rateLimitWindow)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", s.rateLimitMax))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		if !decision.ResetAt.IsZero() {
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))
		}

		if !decision.Allowed {
			rateLimitedTotal.Inc()
			HandleRequestError(c, RateLimitError(decision.Message))
			c.Abort()
			return
		}

		c.Next()
	}
}
