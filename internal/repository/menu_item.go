package repository

import (
	"context"

	"gorm.io/gorm"

	"bar-ordering-platform/internal/model"
)

type MenuItemRepository interface {
	FindByID(ctx context.Context, itemID string) (*model.MenuItem, error)
	// FindMany resolves catalog entries for a batch of item ids in one query.
	// Callers decide whether partial resolution is acceptable.
	FindMany(ctx context.Context, itemIDs []string) ([]*model.MenuItem, error)
}

type menuItemRepoImpl struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepoImpl{
		db: db,
	}
}

func (r *menuItemRepoImpl) FindByID(ctx context.Context, itemID string) (*model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *menuItemRepoImpl) FindMany(ctx context.Context, itemIDs []string) ([]*model.MenuItem, error) {
	var items []*model.MenuItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", itemIDs).
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
