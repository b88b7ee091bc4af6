package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/model"
)

type OrderRepository interface {
	// CreateWithItems persists an order and its line items atomically. No
	// orphan order row survives a line-item failure.
	CreateWithItems(ctx context.Context, order *model.Order, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	FindByPreferenceID(ctx context.Context, preferenceID string) (*model.Order, error)
	AttachPreference(ctx context.Context, orderID, preferenceID string) error
	UpdateStatus(ctx context.Context, orderID, status, mpPaymentID string) error
	GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) CreateWithItems(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodeOrderCreationFailed,
			"create order with items", err)
	}

	return nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, apperr.CodeOrderNotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, apperr.CodePersistenceFailed, "find order", err)
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByPreferenceID(ctx context.Context, preferenceID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("preference_id = ?", preferenceID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, apperr.CodeOrderNotFound,
				"no order for checkout session")
		}
		return nil, apperr.Wrap(apperr.Persistence, apperr.CodePersistenceFailed,
			"find order by preference", err)
	}

	return &order, nil
}

func (r *orderRepoImpl) AttachPreference(ctx context.Context, orderID, preferenceID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"preference_id": preferenceID,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodeOrderUpdateFailed,
			"attach preference to order", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, apperr.CodeOrderNotFound,
			"order not found for preference attach")
	}

	return nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID, status, mpPaymentID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":        status,
			"mp_payment_id": mpPaymentID,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodeOrderUpdateFailed,
			"update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, apperr.CodeOrderNotFound,
			"order not found for status update")
	}

	return nil
}

func (r *orderRepoImpl) GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
