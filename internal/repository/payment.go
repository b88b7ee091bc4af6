package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/model"
)

type PaymentRepository interface {
	// Upsert inserts or updates the payment keyed on its processor payment
	// id. A redelivered notification updates in place instead of duplicating.
	Upsert(ctx context.Context, payment *model.Payment) error
	FindByMPPaymentID(ctx context.Context, mpPaymentID string) (*model.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Upsert(ctx context.Context, payment *model.Payment) error {
	// True storage-level upsert: two concurrent deliveries of the same
	// notification cannot both insert, the conflict clause resolves the race.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "mp_payment_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":                payment.Status,
			"amount_cents":          payment.AmountCents,
			"fee_cents":             payment.FeeCents,
			"marketplace_fee_cents": payment.MarketplaceFeeCents,
			"merchant_cents":        payment.MerchantCents,
			"payment_method":        payment.PaymentMethod,
			"raw_payload":           payment.RawPayload,
			"updated_at":            time.Now(),
		}),
	}).Create(payment).Error

	if err != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodePaymentUpsertFailed,
			"upsert payment", err)
	}

	return nil
}

func (r *paymentRepoImpl) FindByMPPaymentID(ctx context.Context, mpPaymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("mp_payment_id = ?", mpPaymentID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, apperr.CodeOrderNotFound, "payment not found")
		}
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, apperr.CodeOrderNotFound, "payment not found")
		}
		return nil, err
	}

	return &payment, nil
}
