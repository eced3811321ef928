package providers

import (
	"context"
	"errors"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
)

// ErrOrderNotFound is returned by FetchOrder when the gateway has no such order.
var ErrOrderNotFound = errors.New("order not found")

// OrderRequest is a create-order call in minor units.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
	Capture  bool
}

// PaymentGateway defines the calls made against the external payment gateway.
type PaymentGateway interface {
	// CreateOrder registers a new order. It returns an order only on success.
	CreateOrder(ctx context.Context, req OrderRequest) (*models.PaymentOrder, error)

	// FetchOrder returns the order or ErrOrderNotFound.
	FetchOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error)

	// FetchPayments lists payment attempts made against an order.
	FetchPayments(ctx context.Context, orderID string) ([]models.GatewayPayment, error)
}
