package services_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---- gateway ----

type mockGateway struct {
	mu          sync.Mutex
	createCalls []providers.OrderRequest
	createErrs  []error // consumed per call; the last one repeats
	order       *models.GatewayOrder
	fetchErr    error
	payments    []models.GatewayPayment
	paymentsErr error
}

func (m *mockGateway) CreateOrder(ctx context.Context, req providers.OrderRequest) (*models.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls = append(m.createCalls, req)
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		if len(m.createErrs) > 1 {
			m.createErrs = m.createErrs[1:]
		}
		if err != nil {
			return nil, err
		}
	}
	return &models.PaymentOrder{
		ID:       "order_abc",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}, nil
}

func (m *mockGateway) FetchOrder(ctx context.Context, orderID string) (*models.GatewayOrder, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if m.order == nil {
		return nil, providers.ErrOrderNotFound
	}
	return m.order, nil
}

func (m *mockGateway) FetchPayments(ctx context.Context, orderID string) ([]models.GatewayPayment, error) {
	return m.payments, m.paymentsErr
}

func (m *mockGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.createCalls)
}

// ---- sleeper ----

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return ctx.Err()
}

// ---- payment records ----

type mockRecords struct {
	created   []*models.PaymentOrder
	createErr error
	byOrder   map[string]*models.PaymentRecord
	findErr   error
	paid      map[string]string
	markErr   error
}

func (m *mockRecords) CreateRecord(ctx context.Context, order *models.PaymentOrder) (*models.PaymentRecord, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, order)
	return &models.PaymentRecord{OrderID: order.ID, Amount: order.Amount}, nil
}

func (m *mockRecords) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if r, ok := m.byOrder[orderID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecords) MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	if m.paid == nil {
		m.paid = map[string]string{}
	}
	m.paid[orderID] = paymentID
	return nil
}

// ---- receipt cache ----

type mockCache struct {
	orders map[string]*models.PaymentOrder
	getErr error
}

func (m *mockCache) Get(ctx context.Context, receipt string) (*models.PaymentOrder, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.orders[receipt], nil
}

func (m *mockCache) Put(ctx context.Context, order *models.PaymentOrder) error {
	if m.orders == nil {
		m.orders = map[string]*models.PaymentOrder{}
	}
	m.orders[order.Receipt] = order
	return nil
}

// ---- applications ----

type mockApps struct {
	created   []*models.InternshipApplication
	createErr error
	byID      map[uuid.UUID]*models.InternshipApplication
	markErr   error
	marked    map[uuid.UUID]int64
	owners    map[string]uuid.UUID // payment id -> application id
}

// claim mirrors the unique index on payment_id.
func (m *mockApps) claim(id uuid.UUID, paymentID string) error {
	if m.owners == nil {
		m.owners = map[string]uuid.UUID{}
	}
	if owner, ok := m.owners[paymentID]; ok && owner != id {
		return repository.ErrPaymentAlreadyUsed
	}
	m.owners[paymentID] = id
	return nil
}

func (m *mockApps) Create(ctx context.Context, app *models.InternshipApplication) error {
	if m.createErr != nil {
		return m.createErr
	}
	if app.PaymentID != nil {
		if err := m.claim(app.ID, *app.PaymentID); err != nil {
			return err
		}
	}
	m.created = append(m.created, app)
	return nil
}

func (m *mockApps) FindByID(ctx context.Context, id uuid.UUID) (*models.InternshipApplication, error) {
	if app, ok := m.byID[id]; ok {
		return app, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApps) MarkPaid(ctx context.Context, id uuid.UUID, orderID, paymentID string, amount int64) error {
	if m.markErr != nil {
		return m.markErr
	}
	if err := m.claim(id, paymentID); err != nil {
		return err
	}
	if m.marked == nil {
		m.marked = map[uuid.UUID]int64{}
	}
	m.marked[id] = amount
	return nil
}

// ---- events ----

type mockPublisher struct {
	events []models.PaymentEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	m.events = append(m.events, event)
	return m.err
}

func (m *mockPublisher) types() []string {
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// ---- verifier ----

type countingVerifier struct {
	result bool
	calls  int
}

func (v *countingVerifier) Verify(orderID, paymentID, claimed string) bool {
	v.calls++
	return v.result
}

// ---- presigner ----

type mockPresigner struct {
	key     string
	expires time.Duration
	err     error
}

func (m *mockPresigner) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	m.key, m.expires = key, expires
	if m.err != nil {
		return "", m.err
	}
	return "https://resumes.s3.amazonaws.com/" + key + "?X-Amz-Signature=abc", nil
}

var errUpstream = errors.New("gateway timeout")
