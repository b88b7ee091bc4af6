package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/client"
	"bar-ordering-platform/internal/dto"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/repository"
)

type PaymentService interface {
	// CreateCheckout validates a cart, creates the order and line items, and
	// requests a hosted checkout session with the bar's split parameters.
	CreateCheckout(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
}

type paymentServiceImpl struct {
	mpClient        client.MercadoPagoClient
	barRepo         repository.BarRepository
	menuItemRepo    repository.MenuItemRepository
	orderRepo       repository.OrderRepository
	baseURL         string
	frontendBaseURL string
}

func NewPaymentService(
	mpClient client.MercadoPagoClient,
	barRepo repository.BarRepository,
	menuItemRepo repository.MenuItemRepository,
	orderRepo repository.OrderRepository,
	baseURL string,
	frontendBaseURL string,
) PaymentService {
	return &paymentServiceImpl{
		mpClient:        mpClient,
		barRepo:         barRepo,
		menuItemRepo:    menuItemRepo,
		orderRepo:       orderRepo,
		baseURL:         baseURL,
		frontendBaseURL: frontendBaseURL,
	}
}

func (s *paymentServiceImpl) CreateCheckout(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	if strings.TrimSpace(req.BarID) == "" {
		return nil, apperr.New(apperr.Validation, apperr.CodeMissingBarReference,
			"bar_id is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.New(apperr.Validation, apperr.CodeEmptyCart,
			"order must contain at least one item")
	}

	// Duplicate ids in the cart merge into one line item; quantities sum.
	itemIDs := make([]string, 0, len(req.Items))
	quantityByItem := make(map[string]int32)
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.New(apperr.Validation, apperr.CodeInvalidQuantity,
				fmt.Sprintf("item %s quantity must be positive", item.ItemID))
		}
		if _, seen := quantityByItem[item.ItemID]; !seen {
			itemIDs = append(itemIDs, item.ItemID)
		}
		quantityByItem[item.ItemID] += item.Quantity
	}

	bar, err := s.barRepo.FindActiveByID(ctx, req.BarID)
	if err != nil {
		return nil, err
	}
	if bar.MPAccessToken == "" || bar.MPUserID == "" {
		return nil, apperr.New(apperr.Validation, apperr.CodeBarNotConnected,
			"bar has no payment account connected")
	}

	// Canonical prices come from the catalog, resolved in one batch. The
	// request's price field is display-only and never trusted.
	catalogItems, err := s.menuItemRepo.FindMany(ctx, itemIDs)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, apperr.CodePersistenceFailed,
			"resolve catalog items", err)
	}
	resolved := make(map[string]*model.MenuItem, len(catalogItems))
	for _, ci := range catalogItems {
		if ci.BarID == bar.ID {
			resolved[ci.ID] = ci
		}
	}
	// Partial resolution fails the whole request before any order exists.
	for _, id := range itemIDs {
		if _, ok := resolved[id]; !ok {
			return nil, apperr.New(apperr.Validation, apperr.CodeItemResolutionFailed,
				fmt.Sprintf("item %s not found in bar catalog", id))
		}
	}

	orderID := uuid.NewString()
	totalCents := int64(0)
	currency := ""
	orderItems := make([]*model.OrderItem, 0, len(resolved))
	prefItems := make([]model.MPPreferenceItem, 0, len(resolved))
	for _, id := range itemIDs {
		ci := resolved[id]
		qty := quantityByItem[id]
		subtotal := ci.PriceCents * int64(qty)
		totalCents += subtotal
		currency = ci.Currency

		orderItems = append(orderItems, &model.OrderItem{
			OrderID:        orderID,
			MenuItemID:     ci.ID,
			Quantity:       qty,
			UnitPriceCents: ci.PriceCents,
			SubtotalCents:  subtotal,
			Currency:       ci.Currency,
		})
		prefItems = append(prefItems, model.MPPreferenceItem{
			ID:         ci.ID,
			Title:      ci.Name,
			Quantity:   qty,
			UnitPrice:  AmountFromCents(ci.PriceCents),
			CurrencyID: ci.Currency,
		})
	}

	if totalCents <= 0 {
		return nil, apperr.New(apperr.Validation, apperr.CodeInvalidTotal,
			"order total must be greater than zero")
	}

	order := &model.Order{
		ID:            orderID,
		BarID:         bar.ID,
		Status:        model.OrderStatusPending,
		TotalCents:    totalCents,
		Currency:      currency,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	}
	if err := s.orderRepo.CreateWithItems(ctx, order, orderItems); err != nil {
		return nil, err
	}

	marketplaceFeeCents, _ := ComputeSplit(totalCents, bar.CommissionRate)

	pref, err := s.mpClient.CreateCheckoutPreference(ctx, bar.MPAccessToken, &model.MPPreferenceRequest{
		Items:             prefItems,
		ExternalReference: orderID,
		MarketplaceFee:    AmountFromCents(marketplaceFeeCents),
		NotificationURL:   s.baseURL + "/api/mercadopago/webhook",
		BackURLs: model.MPBackURLs{
			Success: fmt.Sprintf("%s/%s/order/%s", s.frontendBaseURL, bar.Slug, orderID),
			Pending: fmt.Sprintf("%s/%s/order/%s", s.frontendBaseURL, bar.Slug, orderID),
			Failure: fmt.Sprintf("%s/%s/cart", s.frontendBaseURL, bar.Slug),
		},
		StatementDescriptor: bar.Name,
	})
	if err != nil {
		// The order stays in pending with no checkout session; the customer
		// can simply start over. See DESIGN.md for the open question on
		// expiring these.
		log.Printf("create checkout: preference creation failed for order %s: %v", orderID, err)
		return nil, err
	}

	if err := s.orderRepo.AttachPreference(ctx, orderID, pref.ID); err != nil {
		return nil, err
	}

	return &dto.CreatePaymentResponse{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
		OrderID:          orderID,
	}, nil
}
