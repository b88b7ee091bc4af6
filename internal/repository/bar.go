package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/model"
)

// OAuthTokens is what the connection flow persists onto a bar.
type OAuthTokens struct {
	MPUserID     string
	AccessToken  string
	RefreshToken string
	ConnectedAt  time.Time
}

type BarRepository interface {
	FindByID(ctx context.Context, barID string) (*model.Bar, error)
	FindActiveByID(ctx context.Context, barID string) (*model.Bar, error)
	Exists(ctx context.Context, barID string) (bool, error)
	UpdateOAuthTokens(ctx context.Context, barID string, tokens *OAuthTokens) error
	ClearOAuthTokens(ctx context.Context, barID string) error
}

type barRepoImpl struct {
	db *gorm.DB
}

func NewBarRepository(db *gorm.DB) BarRepository {
	return &barRepoImpl{
		db: db,
	}
}

func (r *barRepoImpl) FindByID(ctx context.Context, barID string) (*model.Bar, error) {
	var bar model.Bar
	err := r.db.WithContext(ctx).
		Where("id = ?", barID).
		First(&bar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, apperr.CodeBarNotFound, "bar not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, apperr.CodePersistenceFailed, "find bar", err)
	}

	return &bar, nil
}

func (r *barRepoImpl) FindActiveByID(ctx context.Context, barID string) (*model.Bar, error) {
	var bar model.Bar
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", barID, true).
		First(&bar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nonexistent and deactivated bars are indistinguishable to the
			// caller: you cannot order from either.
			return nil, apperr.New(apperr.NotFound, apperr.CodeBarNotFound, "bar not found or inactive")
		}
		return nil, apperr.Wrap(apperr.Persistence, apperr.CodePersistenceFailed, "find active bar", err)
	}

	return &bar, nil
}

func (r *barRepoImpl) Exists(ctx context.Context, barID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bar{}).
		Where("id = ?", barID).
		Count(&count).Error

	return count > 0, err
}

func (r *barRepoImpl) UpdateOAuthTokens(ctx context.Context, barID string, tokens *OAuthTokens) error {
	result := r.db.WithContext(ctx).
		Model(&model.Bar{}).
		Where("id = ?", barID).
		Updates(map[string]interface{}{
			"mp_user_id":         tokens.MPUserID,
			"mp_access_token":    tokens.AccessToken,
			"mp_refresh_token":   tokens.RefreshToken,
			"oauth_connected_at": tokens.ConnectedAt,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodeBarUpdateFailed,
			"update bar oauth tokens", result.Error)
	}
	// A zero-row update looks like success at the transport layer. Verify.
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, apperr.CodeBarNotFound,
			"bar not found for token update")
	}

	return nil
}

func (r *barRepoImpl) ClearOAuthTokens(ctx context.Context, barID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Bar{}).
		Where("id = ?", barID).
		Updates(map[string]interface{}{
			"mp_user_id":         "",
			"mp_access_token":    "",
			"mp_refresh_token":   "",
			"oauth_connected_at": nil,
		})

	if result.Error != nil {
		return apperr.Wrap(apperr.Persistence, apperr.CodeBarUpdateFailed,
			"clear bar oauth tokens", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, apperr.CodeBarNotFound,
			"bar not found for token clear")
	}

	return nil
}
