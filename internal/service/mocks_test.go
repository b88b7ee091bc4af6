package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bar-ordering-platform/internal/dto"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/repository"
)

// Mock implementations shared by the service tests.

type MockMercadoPagoClient struct {
	mock.Mock
}

func (m *MockMercadoPagoClient) ExchangeCodeForTokens(ctx context.Context, code string) (*model.MPTokenResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MPTokenResponse), args.Error(1)
}

func (m *MockMercadoPagoClient) GetMerchantAccountInfo(ctx context.Context, accessToken string, userID int64) *model.MPAccountInfo {
	args := m.Called(ctx, accessToken, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.MPAccountInfo)
}

func (m *MockMercadoPagoClient) CreateCheckoutPreference(ctx context.Context, sellerAccessToken string, pref *model.MPPreferenceRequest) (*model.MPPreferenceResponse, error) {
	args := m.Called(ctx, sellerAccessToken, pref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MPPreferenceResponse), args.Error(1)
}

func (m *MockMercadoPagoClient) GetPayment(ctx context.Context, paymentID string) (*model.MPPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MPPayment), args.Error(1)
}

type MockBarRepository struct {
	mock.Mock
}

func (m *MockBarRepository) FindByID(ctx context.Context, barID string) (*model.Bar, error) {
	args := m.Called(ctx, barID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bar), args.Error(1)
}

func (m *MockBarRepository) FindActiveByID(ctx context.Context, barID string) (*model.Bar, error) {
	args := m.Called(ctx, barID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bar), args.Error(1)
}

func (m *MockBarRepository) Exists(ctx context.Context, barID string) (bool, error) {
	args := m.Called(ctx, barID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBarRepository) UpdateOAuthTokens(ctx context.Context, barID string, tokens *repository.OAuthTokens) error {
	args := m.Called(ctx, barID, tokens)
	return args.Error(0)
}

func (m *MockBarRepository) ClearOAuthTokens(ctx context.Context, barID string) error {
	args := m.Called(ctx, barID)
	return args.Error(0)
}

type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) FindByID(ctx context.Context, itemID string) (*model.MenuItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) FindMany(ctx context.Context, itemIDs []string) ([]*model.MenuItem, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MenuItem), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPreferenceID(ctx context.Context, preferenceID string) (*model.Order, error) {
	args := m.Called(ctx, preferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) AttachPreference(ctx context.Context, orderID, preferenceID string) error {
	args := m.Called(ctx, orderID, preferenceID)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID, status, mpPaymentID string) error {
	args := m.Called(ctx, orderID, status, mpPaymentID)
	return args.Error(0)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.OrderItem), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Upsert(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByMPPaymentID(ctx context.Context, mpPaymentID string) (*model.Payment, error) {
	args := m.Called(ctx, mpPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

// helper shared across tests
func activeBar() *model.Bar {
	return &model.Bar{
		ID:             "B1",
		Name:           "La Esquina",
		Slug:           "la-esquina",
		IsActive:       true,
		CommissionRate: 0.05,
		MPUserID:       "123456",
		MPAccessToken:  "APP_USR-seller-token",
	}
}

func cartRequest() *dto.CreatePaymentRequest {
	return &dto.CreatePaymentRequest{
		BarID: "B1",
		Items: []*dto.CartItem{
			{ItemID: "I1", Quantity: 2, Price: 999},
		},
		Total: 999,
	}
}
