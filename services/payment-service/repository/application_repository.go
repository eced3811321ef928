package repository

import (
	"context"
	"errors"

	"github.com/MD-HACKER07/atlanticenterprise-sub001/services/payment-service/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPaymentAlreadyUsed is returned when a payment or order is already attached
// to another application, or the application is already paid with another payment.
var ErrPaymentAlreadyUsed = errors.New("payment already attached to an application")

// ApplicationRepository persists internship applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.InternshipApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InternshipApplication, error)
	MarkPaid(ctx context.Context, id uuid.UUID, orderID, paymentID string, amount int64) error
}

type gormApplicationRepo struct {
	db *gorm.DB
}

func NewGormApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &gormApplicationRepo{db: db}
}

func (r *gormApplicationRepo) Create(ctx context.Context, app *models.InternshipApplication) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPaymentAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *gormApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InternshipApplication, error) {
	var app models.InternshipApplication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// MarkPaid attaches a verified payment to an application. Repeating the call
// with the same payment is a no-op; a different payment, or a payment already
// attached elsewhere, yields ErrPaymentAlreadyUsed.
func (r *gormApplicationRepo) MarkPaid(ctx context.Context, id uuid.UUID, orderID, paymentID string, amount int64) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.InternshipApplication{}).
		Where("id = ? AND (payment_id IS NULL OR payment_id = ?)", id, paymentID).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"payment_id":     paymentID,
			"payment_amount": amount,
			"order_id":       orderID,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrPaymentAlreadyUsed
		}
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.InternshipApplication{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrPaymentAlreadyUsed
}
