package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_key_secret"

	t.Run("accepts the provider-computed signature", func(t *testing.T) {
		sig := signPayment("order_123", "pay_456", secret)
		assert.True(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	})

	t.Run("rejects a single flipped bit", func(t *testing.T) {
		sig := signPayment("order_123", "pay_456", secret)

		raw, err := hex.DecodeString(sig)
		require.NoError(t, err)
		raw[0] ^= 0x01
		tampered := hex.EncodeToString(raw)

		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", tampered, secret))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		sig := signPayment("order_123", "pay_456", "other_secret")
		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig, secret))
	})

	t.Run("rejects swapped identifiers", func(t *testing.T) {
		sig := signPayment("order_123", "pay_456", secret)
		assert.False(t, VerifyPaymentSignature("pay_456", "order_123", sig, secret))
	})

	t.Run("rejects length mismatch and empty signature", func(t *testing.T) {
		sig := signPayment("order_123", "pay_456", secret)
		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", sig[:10], secret))
		assert.False(t, VerifyPaymentSignature("order_123", "pay_456", "", secret))
	})
}
