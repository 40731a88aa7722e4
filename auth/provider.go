package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neuraldesk/billing/internal/slogging"
)

// TokenVerifier exchanges a bearer token for a user identity
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (userID string, err error)
}

// ErrInvalidToken is returned for tokens that fail verification for any reason.
// Callers must not surface the underlying cause to clients.
var ErrInvalidToken = errors.New("invalid token")

// Provider verifies Supabase-style (GoTrue) access tokens.
//
// When JWTSecret is configured, tokens are verified locally as HS256 JWTs
// with the user id taken from the "sub" claim. Otherwise the token is
// exchanged at <BaseURL>/auth/v1/user with one non-retried network call.
type Provider struct {
	BaseURL    string
	ServiceKey string
	JWTSecret  string

	httpClient *http.Client
}

// NewProvider creates a token verifier for the configured auth deployment
func NewProvider(baseURL, serviceKey, jwtSecret string) *Provider {
	return &Provider{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		JWTSecret:  jwtSecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyToken validates the token and returns the authenticated user id
func (p *Provider) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	if p.JWTSecret != "" {
		return p.verifyLocal(token)
	}
	return p.verifyRemote(ctx, token)
}

func (p *Provider) verifyLocal(token string) (string, error) {
	logger := slogging.Get()

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.JWTSecret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		logger.Debug("token verification failed: %v", err)
		return "", ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// userResponse is the subset of the GoTrue user object we need
type userResponse struct {
	ID string `json:"id"`
}

func (p *Provider) verifyRemote(ctx context.Context, token string) (string, error) {
	logger := slogging.Get()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.ServiceKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Warn("auth provider call failed: %v", err)
		return "", fmt.Errorf("auth provider unavailable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("auth provider rejected token: status=%d", resp.StatusCode)
		return "", ErrInvalidToken
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read auth provider response: %w", err)
	}

	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("failed to decode auth provider response: %w", err)
	}
	if user.ID == "" {
		return "", ErrInvalidToken
	}
	return user.ID, nil
}

// SetHTTPClient overrides the HTTP client (used by tests)
func (p *Provider) SetHTTPClient(client *http.Client) {
	p.httpClient = client
}
