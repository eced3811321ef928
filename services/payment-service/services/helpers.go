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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// publish is best effort; a failed publish is logged and never fails the request.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, event models.PaymentEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish payment event",
			zap.String("event_type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}
	logger.Debug("Payment event published",
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
	)
}

// recordCount ships a metric in the background so CloudWatch latency never
// reaches the request path.
func recordCount(m awspkg.MetricsRecorder, metric string, dims map[string]string) {
	if m == nil || !m.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordCount(ctx, metric, dims)
	}()
}

// orderAmount returns the minor-unit amount of a gateway order, preferring the
// local record and falling back to the gateway.
func orderAmount(ctx context.Context, records repository.PaymentRepository, gateway providers.PaymentGateway, orderID string) (int64, error) {
	if records != nil {
		record, err := records.FindByOrderID(ctx, orderID)
		if err == nil {
			return record.Amount, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.Internal("Failed to load payment record", err)
		}
	}
	if gateway == nil {
		return 0, apperrors.NotFound("Order not found")
	}
	order, err := gateway.FetchOrder(ctx, orderID)
	if errors.Is(err, providers.ErrOrderNotFound) {
		return 0, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return 0, apperrors.UpstreamUnavailable("Failed to fetch order", err)
	}
	return order.Amount, nil
}
