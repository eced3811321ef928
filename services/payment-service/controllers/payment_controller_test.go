package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/controllers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/services"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock implementing services.PaymentService ----

type mockPaymentSvc struct {
	order       *models.PaymentOrder
	createErr   error
	createReq   *models.CreateOrderRequest
	verifyCalls int
	verifyRes   *models.VerificationResult
	verifyErr   error
	status      *models.GatewayOrder
	payments    []models.GatewayPayment
	statusErr   error
}

func (m *mockPaymentSvc) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PaymentOrder, error) {
	m.createReq = req
	return m.order, m.createErr
}

func (m *mockPaymentSvc) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerificationResult, error) {
	m.verifyCalls++
	return m.verifyRes, m.verifyErr
}

func (m *mockPaymentSvc) PaymentStatus(ctx context.Context, orderID string) (*models.GatewayOrder, []models.GatewayPayment, error) {
	return m.status, m.payments, m.statusErr
}

// stubGateway reports every order as missing and never creates one.
type stubGateway struct{}

func (stubGateway) CreateOrder(ctx context.Context, req providers.OrderRequest) (*models.PaymentOrder, error) {
	return nil, errors.New("not used")
}

func (stubGateway) FetchOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error) {
	return nil, providers.ErrOrderNotFound
}

func (stubGateway) FetchPayments(ctx context.Context, orderID string) ([]models.GatewayPayment, error) {
	return nil, providers.ErrOrderNotFound
}

type countingVerifier struct {
	calls int
}

func (v *countingVerifier) Verify(orderID, paymentID, claimed string) bool {
	v.calls++
	return false
}

// ---- helpers ----

func setupRouter(svc services.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	_ = models.RegisterValidators()
	r := gin.New()
	c := controllers.NewPaymentController(svc, controllers.CheckoutConfig{
		KeyID:             "rzp_test_123",
		Currency:          "INR",
		CheckoutScriptURL: "https://checkout.razorpay.com/v1/checkout.js",
	}, zap.NewNop())

	r.POST("/api/create-order", c.CreateOrder)
	r.POST("/api/verify-payment", c.VerifyPayment)
	r.GET("/api/payment-status/:order_id", c.PaymentStatus)
	r.GET("/api/payment-config", c.PaymentConfig)
	return r
}

func newRealService(verifier signature.Verifier) services.PaymentService {
	gw := stubGateway{}
	oc := services.NewOrderCreator(gw, services.OrderSettings{MaxAttempts: 1}, zap.NewNop())
	return services.NewPaymentService(oc, gw, verifier, services.PaymentDeps{}, zap.NewNop())
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	case nil:
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ---- create-order ----

func TestCreateOrder_Success(t *testing.T) {
	svc := &mockPaymentSvc{order: &models.PaymentOrder{ID: "order_abc", Amount: 10000, Currency: "INR", Receipt: "receipt_1"}}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/create-order", `{"amount": 100.00, "notes": {"internship": "go"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"order_abc","amount":10000,"currency":"INR","receipt":"receipt_1"}`, w.Body.String())
	require.NotNil(t, svc.createReq.Amount)
	assert.Equal(t, "100", svc.createReq.Amount.String())
}

func TestCreateOrder_MissingAmount(t *testing.T) {
	r := setupRouter(newRealService(&countingVerifier{}))

	w := doJSON(r, http.MethodPost, "/api/create-order", `{"currency": "INR"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Amount is required"}`, w.Body.String())
}

func TestCreateOrder_InvalidCurrency(t *testing.T) {
	svc := &mockPaymentSvc{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/create-order", `{"amount": 10, "currency": "RUPEES"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.createReq)
}

func TestCreateOrder_TooManyNotes(t *testing.T) {
	notes := map[string]string{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p"} {
		notes[k] = "v"
	}
	svc := &mockPaymentSvc{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/create-order", map[string]interface{}{"amount": 10, "notes": notes})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.createReq)
}

func TestCreateOrder_GatewayExhausted(t *testing.T) {
	svc := &mockPaymentSvc{createErr: apperrors.PaymentInitializationFailed(errors.New("gateway timeout"), services.RemediationSuggestions)}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/create-order", `{"amount": 10}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Failed to create payment order", resp["error"])
	assert.Equal(t, "gateway timeout", resp["details"])
	assert.Equal(t, "PAYMENT_INITIALIZATION_FAILED", resp["code"])
	assert.Len(t, resp["suggestions"], 3)
}

func TestCreateOrder_BadJSON(t *testing.T) {
	r := setupRouter(&mockPaymentSvc{})

	w := doJSON(r, http.MethodPost, "/api/create-order", "not-json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- verify-payment ----

func TestVerifyPayment_MissingFields_NoVerifierCall(t *testing.T) {
	verifier := &countingVerifier{}
	r := setupRouter(newRealService(verifier))

	bodies := []string{
		`{"razorpay_payment_id":"pay_123","razorpay_signature":"sig"}`,
		`{"razorpay_order_id":"order_abc","razorpay_signature":"sig"}`,
		`{"razorpay_order_id":"order_abc","razorpay_payment_id":"pay_123"}`,
		`{}`,
	}
	for _, body := range bodies {
		w := doJSON(r, http.MethodPost, "/api/verify-payment", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error":"Missing payment verification parameters"}`, w.Body.String())
	}
	assert.Equal(t, 0, verifier.calls)
}

func TestVerifyPayment_MissingFields_NoServiceCall(t *testing.T) {
	svc := &mockPaymentSvc{}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/verify-payment", `{"razorpay_order_id":"order_abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, svc.verifyCalls)
}

func TestVerifyPayment_EndToEnd(t *testing.T) {
	r := setupRouter(newRealService(signature.NewHMACVerifier("sekret")))

	w := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  signature.Sign("order_abc", "pay_123", "sekret"),
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "order_abc", resp["orderId"])
	assert.Equal(t, "pay_123", resp["paymentId"])
	assert.NotEmpty(t, resp["message"])

	w = doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{
		"razorpay_order_id":   "order_abc",
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "deadbeef",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Payment verification failed. Invalid signature."}`, w.Body.String())
}

func TestVerifyPayment_InternalErrorIsNotMismatch(t *testing.T) {
	svc := &mockPaymentSvc{verifyErr: apperrors.Internal("Failed to update application payment status", errors.New("db down"))}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{
		"razorpay_order_id": "order_abc", "razorpay_payment_id": "pay_123", "razorpay_signature": "sig",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Failed to update application payment status", resp["error"])
	assert.Equal(t, "db down", resp["details"])
	assert.NotContains(t, resp, "success")
}

func TestVerifyPayment_UntypedErrorIsGeneric500(t *testing.T) {
	svc := &mockPaymentSvc{verifyErr: errors.New("secret=abc leaked")}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodPost, "/api/verify-payment", map[string]string{
		"razorpay_order_id": "order_abc", "razorpay_payment_id": "pay_123", "razorpay_signature": "sig",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

// ---- payment-status ----

func TestPaymentStatus_NotFound(t *testing.T) {
	r := setupRouter(newRealService(&countingVerifier{}))

	w := doJSON(r, http.MethodGet, "/api/payment-status/nonexistent-order", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Order not found"}`, w.Body.String())
}

func TestPaymentStatus_Success(t *testing.T) {
	svc := &mockPaymentSvc{
		status:   &models.GatewayOrder{ID: "order_abc", Amount: 2000, Currency: "INR", Status: "paid"},
		payments: []models.GatewayPayment{{ID: "pay_123", Amount: 2000, Status: "captured", Method: "card"}},
	}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/payment-status/order_abc", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	order := resp["order"].(map[string]interface{})
	assert.Equal(t, "paid", order["status"])
	assert.Contains(t, order, "created_at")
	payments := resp["payments"].([]interface{})
	assert.Equal(t, "card", payments[0].(map[string]interface{})["method"])
}

func TestPaymentStatus_UpstreamFailure(t *testing.T) {
	svc := &mockPaymentSvc{statusErr: apperrors.UpstreamUnavailable("Failed to fetch payment status", errors.New("503 service unavailable"))}
	r := setupRouter(svc)

	w := doJSON(r, http.MethodGet, "/api/payment-status/order_abc", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Failed to fetch payment status","error":"503 service unavailable"}`, w.Body.String())
}

// ---- payment-config ----

func TestPaymentConfig_NoSecret(t *testing.T) {
	r := setupRouter(&mockPaymentSvc{})

	w := doJSON(r, http.MethodGet, "/api/payment-config", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key_id":"rzp_test_123","currency":"INR","checkout_script_url":"https://checkout.razorpay.com/v1/checkout.js"}`, w.Body.String())
}
