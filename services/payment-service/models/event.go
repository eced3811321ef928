package models

import "time"

const (
	EventOrderCreated         = "payment_order_created"
	EventPaymentVerified      = "payment_verified"
	EventVerificationMismatch = "payment_verification_failed"
	EventApplicationSubmitted = "application_submitted"
)

// PaymentEvent is published to the configured event bus after order creation and
// after every verification outcome.
type PaymentEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	PaymentID     string    `json:"payment_id,omitempty"`
	ApplicationID string    `json:"application_id,omitempty"`
	Amount        int64     `json:"amount,omitempty"` // minor units
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
