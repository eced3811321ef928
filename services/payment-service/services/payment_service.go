package services

import (
	"context"
	"errors"
	"time"

	awspkg "github.com/MD-HACKER07/atlanticenterprise-sub001/pkg/aws"
	apperrors "github.com/MD-HACKER07/atlanticenterprise-sub001/services/common/errors"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/events"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/providers"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/repository"
	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/signature"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService defines the payment operations exposed over HTTP.
type PaymentService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerificationResult, error)
	PaymentStatus(ctx context.Context, orderID string) (*models.GatewayOrder, []models.GatewayPayment, error)
}

type paymentServiceImpl struct {
	creator  *OrderCreator
	gateway  providers.PaymentGateway
	verifier signature.Verifier
	records  repository.PaymentRepository
	apps     repository.ApplicationRepository
	events   events.Publisher
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
}

// PaymentDeps groups the optional collaborators. Nil repositories, publisher or
// metrics disable the matching side effect.
type PaymentDeps struct {
	Records      repository.PaymentRepository
	Applications repository.ApplicationRepository
	Events       events.Publisher
	Metrics      awspkg.MetricsRecorder
}

func NewPaymentService(
	creator *OrderCreator,
	gateway providers.PaymentGateway,
	verifier signature.Verifier,
	deps PaymentDeps,
	logger *zap.Logger,
) PaymentService {
	pub := deps.Events
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &paymentServiceImpl{
		creator:  creator,
		gateway:  gateway,
		verifier: verifier,
		records:  deps.Records,
		apps:     deps.Applications,
		events:   pub,
		metrics:  deps.Metrics,
		logger:   logger,
	}
}

func (s *paymentServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PaymentOrder, error) {
	return s.creator.CreateOrder(ctx, req)
}

// VerifyPayment checks the callback signature. A mismatch is an expected outcome
// reported as VerificationMismatch; it is never retried.
func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.VerificationResult, error) {
	if req == nil || !req.Complete() {
		return nil, apperrors.InvalidRequest("Missing payment verification parameters")
	}

	var appID uuid.UUID
	if req.ApplicationID != "" {
		id, err := uuid.Parse(req.ApplicationID)
		if err != nil {
			return nil, apperrors.InvalidRequest("Invalid application_id")
		}
		appID = id
	}

	if !s.verifier.Verify(req.OrderID, req.PaymentID, req.Signature) {
		recordCount(s.metrics, awspkg.MetricVerificationMismatch, nil)
		publish(ctx, s.events, s.logger, models.PaymentEvent{
			Type:      models.EventVerificationMismatch,
			OrderID:   req.OrderID,
			PaymentID: req.PaymentID,
			Timestamp: time.Now().UTC(),
		})
		return nil, apperrors.VerificationMismatch()
	}

	now := time.Now().UTC()
	if s.records != nil {
		if err := s.records.MarkPaid(ctx, req.OrderID, req.PaymentID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("No local record for verified order", zap.String("order_id", req.OrderID))
			} else {
				s.logger.Error("Failed to mark payment record paid", zap.String("order_id", req.OrderID), zap.Error(err))
			}
		}
	}

	event := models.PaymentEvent{
		Type:      models.EventPaymentVerified,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Timestamp: now,
	}
	if appID != uuid.Nil {
		amount, err := s.markApplicationPaid(ctx, appID, req.OrderID, req.PaymentID)
		if err != nil {
			return nil, err
		}
		event.ApplicationID = appID.String()
		event.Amount = amount
	}

	recordCount(s.metrics, awspkg.MetricPaymentVerified, nil)
	s.logger.Info("Payment verified",
		zap.String("order_id", req.OrderID),
		zap.String("payment_id", req.PaymentID),
	)
	publish(ctx, s.events, s.logger, event)

	return &models.VerificationResult{Valid: true, OrderID: req.OrderID, PaymentID: req.PaymentID}, nil
}

func (s *paymentServiceImpl) markApplicationPaid(ctx context.Context, appID uuid.UUID, orderID, paymentID string) (int64, error) {
	if s.apps == nil {
		return 0, apperrors.Internal("Application store unavailable", nil)
	}
	amount, err := orderAmount(ctx, s.records, s.gateway, orderID)
	if err != nil {
		return 0, err
	}
	if err := s.apps.MarkPaid(ctx, appID, orderID, paymentID, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NotFound("Application not found")
		}
		if errors.Is(err, repository.ErrPaymentAlreadyUsed) {
			s.logger.Warn("Payment already attached to another application",
				zap.String("application_id", appID.String()),
				zap.String("order_id", orderID),
				zap.String("payment_id", paymentID),
			)
			return 0, apperrors.Conflict(paymentInUseMessage)
		}
		s.logger.Error("Failed to mark application paid",
			zap.String("application_id", appID.String()),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return 0, apperrors.Internal("Failed to update application payment status", err)
	}
	return amount, nil
}

// PaymentStatus fetches the order and its payments from the gateway. Failures
// surface immediately.
func (s *paymentServiceImpl) PaymentStatus(ctx context.Context, orderID string) (*models.GatewayOrder, []models.GatewayPayment, error) {
	if orderID == "" {
		return nil, nil, apperrors.InvalidRequest("Order ID is required")
	}

	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, providers.ErrOrderNotFound) {
			return nil, nil, apperrors.NotFound("Order not found")
		}
		s.logger.Error("Failed to fetch order from gateway", zap.String("order_id", orderID), zap.Error(err))
		return nil, nil, apperrors.UpstreamUnavailable("Failed to fetch payment status", err)
	}

	payments, err := s.gateway.FetchPayments(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to fetch payments from gateway", zap.String("order_id", orderID), zap.Error(err))
		return nil, nil, apperrors.UpstreamUnavailable("Failed to fetch payment status", err)
	}
	return order, payments, nil
}
