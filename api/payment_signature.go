package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks a Razorpay checkout callback signature.
// The provider signs "<orderID>|<paymentID>" with HMAC-SHA256 using the
// API key secret and sends the digest as lowercase hex. A callback must
// never be trusted, regardless of its claimed payment status, unless
// this check passes.
//
// Comparison is constant-time; any mismatch (including length) is false.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
