package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentOrder is a gateway order as returned by a successful create call.
// Amount is in minor currency units.
type PaymentOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// PaymentVerificationRequest is the triple the checkout widget hands back.
type PaymentVerificationRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerificationResult is derived from a verification request and never stored.
type VerificationResult struct {
	Valid     bool   `json:"valid"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

// GatewayOrder is the normalized status-check view of an order.
type GatewayOrder struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// GatewayPayment is one payment attempt against an order.
type GatewayPayment struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
	Method string `json:"method"`
}

type RecordStatus string

const (
	RecordStatusCreated RecordStatus = "created"
	RecordStatusPaid    RecordStatus = "paid"
)

// PaymentRecord is the local audit row for a gateway order. The gateway stays
// the source of truth.
type PaymentRecord struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Currency  string       `gorm:"type:varchar(3);not null" json:"currency"`
	Receipt   string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"receipt"`
	NotesJSON string       `gorm:"column:notes;type:jsonb" json:"-"`
	Status    RecordStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentID *string      `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
	PaidAt    *time.Time   `json:"paid_at,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_orders"
}
