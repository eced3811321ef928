package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"gorm.io/gorm"
)

// PaymentRepository stores the local audit trail of gateway orders.
type PaymentRepository interface {
	CreateRecord(ctx context.Context, order *models.PaymentOrder) (*models.PaymentRecord, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.PaymentRecord, error)
	MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) CreateRecord(ctx context.Context, order *models.PaymentOrder) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   models.RecordStatusCreated,
	}
	if len(order.Notes) > 0 {
		b, err := json.Marshal(order.Notes)
		if err != nil {
			return nil, err
		}
		record.NotesJSON = string(b)
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *gormPaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkPaid is idempotent for the same payment id; it returns gorm.ErrRecordNotFound
// when no row exists for the order.
func (r *gormPaymentRepo) MarkPaid(ctx context.Context, orderID, paymentID string, paidAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     models.RecordStatusPaid,
			"payment_id": paymentID,
			"paid_at":    paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
