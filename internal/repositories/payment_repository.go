package repositories

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"listaai/internal/models/db_models"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *db_models.Payment) error
	FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Payment, error)
	// SetStatus stores status and the gateway snapshot. changed is true only
	// when the stored status differed from status before the call.
	SetStatus(ctx context.Context, paymentID string, status db_models.PaymentStatus, snapshot datatypes.JSON) (changed bool, err error)
	WithTx(tx *gorm.DB) PaymentRepository
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (p *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (p *paymentRepository) Insert(ctx context.Context, payment *db_models.Payment) error {
	return p.db.WithContext(ctx).Create(payment).Error
}

func (p *paymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := p.db.WithContext(ctx).First(&payment, "payment_id = ?", paymentID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

func (p *paymentRepository) SetStatus(ctx context.Context, paymentID string, status db_models.PaymentStatus, snapshot datatypes.JSON) (bool, error) {
	res := p.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("payment_id = ? AND status <> ?", paymentID, status).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}

	if len(snapshot) > 0 {
		err := p.db.WithContext(ctx).
			Model(&db_models.Payment{}).
			Where("payment_id = ?", paymentID).
			Update("metadata", snapshot).Error
		if err != nil {
			return false, err
		}
	}
	return res.RowsAffected == 1, nil
}
