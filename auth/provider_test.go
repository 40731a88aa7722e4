package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestProvider_VerifyLocal(t *testing.T) {
	const secret = "super-secret"
	ctx := context.Background()

	t.Run("valid token yields the subject", func(t *testing.T) {
		p := NewProvider("", "", secret)
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		userID, err := p.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		p := NewProvider("", "", secret)
		token := signToken(t, secret, jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		_, err := p.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token without expiry is rejected", func(t *testing.T) {
		p := NewProvider("", "", secret)
		token := signToken(t, secret, jwt.MapClaims{"sub": "user-123"})

		_, err := p.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		p := NewProvider("", "", secret)
		token := signToken(t, "other-secret", jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := p.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		p := NewProvider("", "", secret)
		token := signToken(t, secret, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := p.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		p := NewProvider("", "", secret)
		_, err := p.VerifyToken(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestProvider_VerifyRemote(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges the token at the user endpoint", func(t *testing.T) {
		var gotAuth, gotAPIKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/v1/user", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			gotAPIKey = r.Header.Get("apikey")
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-remote"})
		}))
		defer srv.Close()

		p := NewProvider(srv.URL, "service-key", "")
		userID, err := p.VerifyToken(ctx, "remote-token")

		require.NoError(t, err)
		assert.Equal(t, "user-remote", userID)
		assert.Equal(t, "Bearer remote-token", gotAuth)
		assert.Equal(t, "service-key", gotAPIKey)
	})

	t.Run("provider rejection maps to ErrInvalidToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := NewProvider(srv.URL, "service-key", "")
		_, err := p.VerifyToken(ctx, "bad-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("response without an id is invalid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		p := NewProvider(srv.URL, "service-key", "")
		_, err := p.VerifyToken(ctx, "token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unreachable provider is a non-token error", func(t *testing.T) {
		p := NewProvider("http://127.0.0.1:1", "service-key", "")
		_, err := p.VerifyToken(ctx, "token")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidToken)
	})
}
