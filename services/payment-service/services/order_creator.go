package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/retry"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/events"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RemediationSuggestions accompany every PaymentInitializationFailed response.
var RemediationSuggestions = []string{
	"Check your internet connection",
	"Try again in a few moments",
	"Contact support if the problem persists",
}

var hundred = decimal.NewFromInt(100)

// OrderSettings are the process-wide order creation defaults.
type OrderSettings struct {
	DefaultCurrency string
	Capture         bool
	MaxAttempts     int
	BaseDelay       time.Duration
}

// OrderCreator opens gateway orders with bounded retry.
type OrderCreator struct {
	gateway  providers.PaymentGateway
	settings OrderSettings
	logger   *zap.Logger

	cache   repository.ReceiptCache
	records repository.PaymentRepository
	events  events.Publisher
	metrics awspkg.MetricsRecorder
	sleep   func(ctx context.Context, d time.Duration) error
}

type OrderCreatorOption func(*OrderCreator)

func WithReceiptCache(c repository.ReceiptCache) OrderCreatorOption {
	return func(oc *OrderCreator) { oc.cache = c }
}

func WithPaymentRecords(r repository.PaymentRepository) OrderCreatorOption {
	return func(oc *OrderCreator) { oc.records = r }
}

func WithOrderEvents(p events.Publisher) OrderCreatorOption {
	return func(oc *OrderCreator) { oc.events = p }
}

func WithOrderMetrics(m awspkg.MetricsRecorder) OrderCreatorOption {
	return func(oc *OrderCreator) { oc.metrics = m }
}

// WithSleeper replaces the timer used between attempts.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) OrderCreatorOption {
	return func(oc *OrderCreator) { oc.sleep = sleep }
}

func NewOrderCreator(gateway providers.PaymentGateway, settings OrderSettings, logger *zap.Logger, opts ...OrderCreatorOption) *OrderCreator {
	if settings.MaxAttempts < 1 {
		settings.MaxAttempts = 3
	}
	if settings.BaseDelay <= 0 {
		settings.BaseDelay = time.Second
	}
	if settings.DefaultCurrency == "" {
		settings.DefaultCurrency = "INR"
	}
	oc := &OrderCreator{
		gateway:  gateway,
		settings: settings,
		logger:   logger,
		events:   events.NoopPublisher{},
		sleep:    retry.TimerSleep,
	}
	for _, opt := range opts {
		opt(oc)
	}
	return oc
}

// RetryBudget is the longest a fully failing CreateOrder spends waiting between attempts.
func (oc *OrderCreator) RetryBudget() time.Duration {
	return oc.policy().TotalDelay()
}

// CreateOrder validates the amount, converts it to minor units and creates the
// gateway order, retrying failed calls with exponential backoff. A caller
// receipt already cached is answered from the cache only when amount and
// currency match; otherwise it is a conflict.
func (oc *OrderCreator) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PaymentOrder, error) {
	if req == nil || req.Amount == nil {
		return nil, apperrors.InvalidRequest("Amount is required")
	}
	amount, err := MinorUnits(*req.Amount)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = oc.settings.DefaultCurrency
	}

	receipt := req.ReceiptID
	if receipt == "" {
		receipt = NewReceipt()
	} else if cached := oc.cachedOrder(ctx, receipt); cached != nil {
		if cached.Amount != amount || cached.Currency != currency {
			oc.logger.Warn("Receipt reused with different order terms",
				zap.String("receipt", receipt),
				zap.String("order_id", cached.ID),
				zap.Int64("cached_amount", cached.Amount),
				zap.Int64("requested_amount", amount),
			)
			return nil, apperrors.Conflict("Receipt already used for a different amount or currency")
		}
		oc.logger.Info("Returning cached order for receipt",
			zap.String("receipt", receipt),
			zap.String("order_id", cached.ID),
		)
		return cached, nil
	}

	orderReq := providers.OrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    req.Notes,
		Capture:  oc.settings.Capture,
	}

	var order *models.PaymentOrder
	err = retry.Do(ctx, oc.policy(), func(ctx context.Context, attempt int) error {
		oc.recordCount(awspkg.MetricOrderAttempts)
		o, err := oc.gateway.CreateOrder(ctx, orderReq)
		if err != nil {
			oc.logger.Warn("Gateway order creation attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", oc.settings.MaxAttempts),
				zap.String("receipt", receipt),
				zap.Error(err),
			)
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		oc.recordCount(awspkg.MetricOrderCreationFailed)
		oc.logger.Error("Payment order creation failed",
			zap.String("receipt", receipt),
			zap.Int64("amount", amount),
			zap.Error(err),
		)
		return nil, apperrors.PaymentInitializationFailed(lastCause(err), RemediationSuggestions)
	}

	oc.recordCount(awspkg.MetricOrdersCreated)
	oc.logger.Info("Payment order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
		zap.String("receipt", order.Receipt),
	)
	oc.afterCreate(ctx, order, req.ReceiptID != "")
	return order, nil
}

func (oc *OrderCreator) policy() retry.Policy {
	return retry.Policy{
		Attempts:  oc.settings.MaxAttempts,
		Delay:     retry.Exponential(oc.settings.BaseDelay),
		Retryable: isRetryable,
		Sleep:     oc.sleep,
	}
}

// afterCreate runs the local side effects of a new order. None of them can fail
// the request: the gateway already holds the order.
func (oc *OrderCreator) afterCreate(ctx context.Context, order *models.PaymentOrder, callerReceipt bool) {
	if oc.records != nil {
		if _, err := oc.records.CreateRecord(ctx, order); err != nil {
			oc.logger.Error("Failed to persist payment order record", zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if callerReceipt && oc.cache != nil {
		if err := oc.cache.Put(ctx, order); err != nil {
			oc.logger.Warn("Failed to cache order by receipt", zap.String("receipt", order.Receipt), zap.Error(err))
		}
	}
	publish(ctx, oc.events, oc.logger, models.PaymentEvent{
		Type:      models.EventOrderCreated,
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Timestamp: time.Now().UTC(),
	})
}

func (oc *OrderCreator) cachedOrder(ctx context.Context, receipt string) *models.PaymentOrder {
	if oc.cache == nil {
		return nil
	}
	order, err := oc.cache.Get(ctx, receipt)
	if err != nil {
		oc.logger.Warn("Receipt cache lookup failed", zap.String("receipt", receipt), zap.Error(err))
		return nil
	}
	return order
}

func (oc *OrderCreator) recordCount(metric string) {
	recordCount(oc.metrics, metric, nil)
}

// MinorUnits converts a major-unit amount to minor units, rounding to the nearest
// integer (19.999 -> 2000).
func MinorUnits(amount decimal.Decimal) (int64, error) {
	minor := amount.Mul(hundred).Round(0)
	if !minor.IsPositive() {
		return 0, apperrors.InvalidRequest("Amount must be greater than zero")
	}
	if minor.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, apperrors.InvalidRequest("Amount is too large")
	}
	return minor.IntPart(), nil
}

// NewReceipt returns a collision-free receipt token within the gateway's 40 character limit.
func NewReceipt() string {
	return "receipt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// A cancelled or expired request is not worth another gateway call.
func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// lastCause strips the context error retry.Do joins on an aborted wait so the
// client sees the upstream message.
func lastCause(err error) error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return err
}
