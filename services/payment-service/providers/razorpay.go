package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/razorpay/razorpay-go"
)

// orderAPI is the part of the Razorpay SDK order resource used here.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Fetch(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
	Payments(orderID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway implements PaymentGateway with the Razorpay Go SDK.
type RazorpayGateway struct {
	orders orderAPI
}

// NewRazorpayGateway builds a client from the key pair. The secret never leaves it.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*models.PaymentOrder, error) {
	capture := 0
	if req.Capture {
		capture = 1
	}
	data := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.Receipt,
		"payment_capture": capture,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	body, err := call(ctx, func() (map[string]interface{}, error) {
		return g.orders.Create(data, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	order := &models.PaymentOrder{
		ID:       str(body["id"]),
		Amount:   integer(body["amount"]),
		Currency: str(body["currency"]),
		Receipt:  str(body["receipt"]),
		Notes:    notes(body["notes"]),
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay create order: response has no id")
	}
	return order, nil
}

func (g *RazorpayGateway) FetchOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error) {
	body, err := call(ctx, func() (map[string]interface{}, error) {
		return g.orders.Fetch(orderID, nil, nil)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("razorpay fetch order: %w", err)
	}
	return &models.GatewayOrder{
		ID:        str(body["id"]),
		Amount:    integer(body["amount"]),
		Currency:  str(body["currency"]),
		Status:    str(body["status"]),
		CreatedAt: time.Unix(integer(body["created_at"]), 0).UTC(),
	}, nil
}

func (g *RazorpayGateway) FetchPayments(ctx context.Context, orderID string) ([]models.GatewayPayment, error) {
	body, err := call(ctx, func() (map[string]interface{}, error) {
		return g.orders.Payments(orderID, nil, nil)
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("razorpay fetch payments: %w", err)
	}

	items, _ := body["items"].([]interface{})
	payments := make([]models.GatewayPayment, 0, len(items))
	for _, it := range items {
		p, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		payments = append(payments, models.GatewayPayment{
			ID:     str(p["id"]),
			Amount: integer(p["amount"]),
			Status: str(p["status"]),
			Method: str(p["method"]),
		})
	}
	return payments, nil
}

type result struct {
	body map[string]interface{}
	err  error
}

// call runs a blocking SDK request and abandons it when ctx is done.
func call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	ch := make(chan result, 1)
	go func() {
		body, err := fn()
		ch <- result{body: body, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.body, r.err
	}
}

// The SDK reports unknown ids as a BAD_REQUEST_ERROR whose description says the
// id does not exist.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}

func str(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func integer(v interface{}) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case json.Number:
		n, _ := t.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

// notes accepts both the object form and the empty-array form the API returns
// when an order has no notes.
func notes(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = str(val)
	}
	return out
}
