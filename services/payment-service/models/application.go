package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusWaived PaymentStatus = "waived"
)

// InternshipApplication is a submitted application. Payment fields are only ever
// set from a verified callback, and a payment or order belongs to at most one
// application.
type InternshipApplication struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InternshipID  string        `gorm:"type:varchar(64);index;not null" json:"internship_id"`
	FullName      string        `gorm:"type:varchar(255);not null" json:"full_name"`
	Email         string        `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone         string        `gorm:"type:varchar(32)" json:"phone"`
	College       string        `gorm:"type:varchar(255)" json:"college,omitempty"`
	ResumeURL     string        `gorm:"type:varchar(1024)" json:"resume_url,omitempty"`
	CoverLetter   string        `gorm:"type:text" json:"cover_letter,omitempty"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	PaymentID     *string       `gorm:"type:varchar(64);uniqueIndex" json:"payment_id,omitempty"`
	PaymentAmount *int64        `json:"payment_amount,omitempty"` // minor units
	OrderID       *string       `gorm:"type:varchar(64);uniqueIndex" json:"order_id,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InternshipApplication) TableName() string {
	return "internship_applications"
}
