package models

import "github.com/shopspring/decimal"

// CreateOrderRequest is the create-order body. Amount is in major units; a nil
// Amount means the field was absent.
type CreateOrderRequest struct {
	Amount    *decimal.Decimal  `json:"amount"`
	Currency  string            `json:"currency" binding:"omitempty,iso4217"`
	ReceiptID string            `json:"receipt_id" binding:"omitempty,max=40"`
	Notes     map[string]string `json:"notes" binding:"omitempty,gateway_notes"`
}

// VerifyPaymentRequest is the verify-payment body. Presence of the triple is
// checked by the handler so that the error message stays fixed.
type VerifyPaymentRequest struct {
	OrderID       string `json:"razorpay_order_id"`
	PaymentID     string `json:"razorpay_payment_id"`
	Signature     string `json:"razorpay_signature"`
	ApplicationID string `json:"application_id,omitempty"`
}

func (r VerifyPaymentRequest) Complete() bool {
	return r.OrderID != "" && r.PaymentID != "" && r.Signature != ""
}

// SubmitApplicationRequest is the application form. The optional payment triple
// comes from the checkout widget.
type SubmitApplicationRequest struct {
	InternshipID      string `json:"internship_id" binding:"required"`
	FullName          string `json:"full_name" binding:"required,max=255"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone" binding:"required,indian_phone"`
	College           string `json:"college" binding:"omitempty,max=255"`
	ResumeURL         string `json:"resume_url" binding:"omitempty,url"`
	CoverLetter       string `json:"cover_letter" binding:"omitempty,max=5000"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Payment returns the embedded callback triple, if any field was sent.
func (r SubmitApplicationRequest) Payment() (PaymentVerificationRequest, bool) {
	p := PaymentVerificationRequest{
		OrderID:   r.RazorpayOrderID,
		PaymentID: r.RazorpayPaymentID,
		Signature: r.RazorpaySignature,
	}
	return p, p.OrderID != "" || p.PaymentID != "" || p.Signature != ""
}

// ResumeUploadResponse is returned by the resume presign endpoint.
type ResumeUploadResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}
