package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neuraldesk/billing/auth"
	"github.com/neuraldesk/billing/internal/slogging"
)

// KeyResolver derives a rate-limit key from a request. Authenticated
// requests are keyed by user so one user cannot exhaust another's
// budget from shared NAT; everything else falls back to client IP.
type KeyResolver struct {
	verifier auth.TokenVerifier
}

// NewKeyResolver creates a resolver backed by the given token verifier
func NewKeyResolver(verifier auth.TokenVerifier) *KeyResolver {
	return &KeyResolver{verifier: verifier}
}

// Resolve returns "user:<id>" for a valid bearer token and
// "ip:<addr>" otherwise. It never fails; an unresolvable client
// degrades to the literal key "ip:unknown".
func (r *KeyResolver) Resolve(c *gin.Context) string {
	logger := slogging.Get()

	token := bearerToken(c)
	if token != "" && r.verifier != nil {
		userID, err := r.verifier.VerifyToken(c.Request.Context(), token)
		if err == nil && userID != "" {
			return "user:" + userID
		}
		logger.Debug("rate limit key falling back to IP: %v", err)
	}

	return "ip:" + clientIP(c)
}

// bearerToken extracts the token from the Authorization header, or ""
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// clientIP resolves the caller address from proxy headers. The first
// X-Forwarded-For entry wins, then X-Real-IP, then "unknown".
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := c.GetHeader("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
