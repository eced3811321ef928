// Package signature authenticates gateway checkout callbacks.
//
// A callback is trusted only when its signature equals the lower-case hex
// HMAC-SHA256 of "<order_id>|<payment_id>" keyed with the gateway secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks a callback triple against the configured secret.
type Verifier interface {
	Verify(orderID, paymentID, claimed string) bool
}

// Sign returns the expected signature for an order/payment pair.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether claimed is the signature of orderID|paymentID under secret.
// The comparison is constant time, case-sensitive and full length.
func Verify(orderID, paymentID, claimed, secret string) bool {
	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(claimed))
}

// HMACVerifier binds Verify to a secret held in process configuration.
type HMACVerifier struct {
	secret string
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: secret}
}

func (v *HMACVerifier) Verify(orderID, paymentID, claimed string) bool {
	return Verify(orderID, paymentID, claimed, v.secret)
}
