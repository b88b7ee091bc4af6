package service

import (
	"context"
	"time"

	"bar-ordering-platform/internal/dto"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/repository"
)

// BarService covers the back-office view of a bar's payment connection.
type BarService interface {
	GetBar(ctx context.Context, barID string) (*model.Bar, error)
	ConnectionStatus(ctx context.Context, barID string) (*dto.BarConnectionStatus, error)
	DisconnectMercadoPago(ctx context.Context, barID string) error
}

type barServiceImpl struct {
	barRepo repository.BarRepository
}

func NewBarService(barRepo repository.BarRepository) BarService {
	return &barServiceImpl{
		barRepo: barRepo,
	}
}

func (s *barServiceImpl) GetBar(ctx context.Context, barID string) (*model.Bar, error) {
	return s.barRepo.FindByID(ctx, barID)
}

func (s *barServiceImpl) ConnectionStatus(ctx context.Context, barID string) (*dto.BarConnectionStatus, error) {
	bar, err := s.barRepo.FindByID(ctx, barID)
	if err != nil {
		return nil, err
	}

	status := &dto.BarConnectionStatus{
		Connected: bar.MPAccessToken != "" && bar.MPUserID != "",
	}
	if status.Connected {
		status.MPUserID = bar.MPUserID
		if bar.OAuthConnectedAt != nil {
			status.ConnectedAt = bar.OAuthConnectedAt.Format(time.RFC3339)
		}
	}

	return status, nil
}

func (s *barServiceImpl) DisconnectMercadoPago(ctx context.Context, barID string) error {
	return s.barRepo.ClearOAuthTokens(ctx, barID)
}
