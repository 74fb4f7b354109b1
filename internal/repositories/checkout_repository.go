package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"listaai/internal/models/db_models"
)

type CheckoutRepository interface {
	Insert(ctx context.Context, checkout *db_models.Checkout) error
	FindById(ctx context.Context, id string) (*db_models.Checkout, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Checkout, error)
	// Transition applies fields only while the checkout is still in step
	// from. It reports whether the row was updated.
	Transition(ctx context.Context, id string, from db_models.CheckoutStep, fields map[string]interface{}) (bool, error)
	// FindAwaitingPayment returns checkouts in the payment step, oldest first.
	FindAwaitingPayment(ctx context.Context, limit int) ([]db_models.Checkout, error)
	// FindExpired returns checkouts in the payment step whose expiry is before now.
	FindExpired(ctx context.Context, now time.Time, limit int) ([]db_models.Checkout, error)
	WithTx(tx *gorm.DB) CheckoutRepository
}

type checkoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

func (r *checkoutRepository) WithTx(tx *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: tx}
}

func (r *checkoutRepository) Insert(ctx context.Context, checkout *db_models.Checkout) error {
	return r.db.WithContext(ctx).Create(checkout).Error
}

func (r *checkoutRepository) FindById(ctx context.Context, id string) (*db_models.Checkout, error) {
	var checkout db_models.Checkout
	err := r.db.WithContext(ctx).First(&checkout, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &checkout, nil
}

func (r *checkoutRepository) FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Checkout, error) {
	if paymentID == "" {
		return nil, nil
	}
	var checkout db_models.Checkout
	err := r.db.WithContext(ctx).First(&checkout, "payment_id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &checkout, nil
}

func (r *checkoutRepository) Transition(ctx context.Context, id string, from db_models.CheckoutStep, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Checkout{}).
		Where("id = ? AND step = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *checkoutRepository) FindAwaitingPayment(ctx context.Context, limit int) ([]db_models.Checkout, error) {
	var out []db_models.Checkout
	err := r.db.WithContext(ctx).
		Where("step = ?", db_models.StepPayment).
		Order("updated_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *checkoutRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]db_models.Checkout, error) {
	var out []db_models.Checkout
	err := r.db.WithContext(ctx).
		Where("step = ? AND expires_at IS NOT NULL AND expires_at < ?", db_models.StepPayment, now).
		Limit(limit).
		Find(&out).Error
	return out, err
}
