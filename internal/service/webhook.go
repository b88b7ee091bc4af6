package service

import (
	"context"
	"log"
	"strconv"

	"bar-ordering-platform/internal/apperr"
	"bar-ordering-platform/internal/client"
	"bar-ordering-platform/internal/model"
	"bar-ordering-platform/internal/repository"
)

// WebhookResult is what the handler reports back to the notification sender.
type WebhookResult struct {
	Handled        bool
	OrderID        string
	ExternalStatus string
	InternalStatus string
}

// WebhookService reconciles asynchronous payment notifications against local
// orders. Notifications are at-least-once and possibly out of order, so
// every step is idempotent and truth is always re-fetched from the
// processor.
type WebhookService interface {
	HandleNotification(ctx context.Context, notification *model.MPWebhookNotification, rawBody []byte) (*WebhookResult, error)
}

type webhookServiceImpl struct {
	mpClient    client.MercadoPagoClient
	barRepo     repository.BarRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

func NewWebhookService(
	mpClient client.MercadoPagoClient,
	barRepo repository.BarRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
) WebhookService {
	return &webhookServiceImpl{
		mpClient:    mpClient,
		barRepo:     barRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

// mapPaymentStatus translates the processor's status vocabulary to order
// statuses. Unrecognized values map to pending: a new upstream status must
// never reject an order or fail the notification.
func mapPaymentStatus(external string) string {
	switch external {
	case "pending", "in_process", "in_mediation":
		return model.OrderStatusPending
	case "approved", "authorized":
		return model.OrderStatusApproved
	case "rejected":
		return model.OrderStatusRejected
	case "cancelled":
		return model.OrderStatusCancelled
	case "refunded", "charged_back":
		return model.OrderStatusRefunded
	default:
		return model.OrderStatusPending
	}
}

func (s *webhookServiceImpl) HandleNotification(ctx context.Context, notification *model.MPWebhookNotification, rawBody []byte) (*WebhookResult, error) {
	// Other notification types (merchant_order, chargebacks, ...) are
	// acknowledged and ignored; they are not errors.
	if notification.Type != "payment" {
		return &WebhookResult{Handled: false}, nil
	}

	// Only the id is trusted from the payload. Status and amounts come from
	// the authoritative fetch.
	payment, err := s.mpClient.GetPayment(ctx, notification.Data.ID)
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, payment)
	if err != nil {
		return nil, err
	}

	bar, err := s.barRepo.FindByID(ctx, order.BarID)
	if err != nil {
		return nil, err
	}

	internalStatus := mapPaymentStatus(payment.Status)
	amountCents := CentsFromAmount(payment.TransactionAmount)
	// Split uses the bar's current commission rate, not a rate snapshotted
	// at order creation. See DESIGN.md.
	marketplaceFeeCents, merchantCents := ComputeSplit(amountCents, bar.CommissionRate)

	mpPaymentID := strconv.FormatInt(payment.ID, 10)
	err = s.paymentRepo.Upsert(ctx, &model.Payment{
		OrderID:             order.ID,
		MPPaymentID:         mpPaymentID,
		Status:              payment.Status,
		AmountCents:         amountCents,
		FeeCents:            CentsFromAmount(payment.ProcessorFee()),
		MarketplaceFeeCents: marketplaceFeeCents,
		MerchantCents:       merchantCents,
		PaymentMethod:       payment.PaymentMethodID,
		RawPayload:          string(rawBody),
	})
	if err != nil {
		// Money is confirmed upstream but not recorded here: the highest-risk
		// inconsistency this service can hit. Never swallowed.
		log.Printf("webhook: PERSISTENCE FAILURE upserting payment %s for order %s: %v",
			mpPaymentID, order.ID, err)
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, internalStatus, mpPaymentID); err != nil {
		if kind, ok := apperr.KindOf(err); ok && kind == apperr.NotFound {
			// The order vanished between lookup and update. A consistency
			// issue to investigate out-of-band, not a reason to make the
			// processor retry a payment we already recorded.
			log.Printf("webhook: order %s missing at status update (payment %s)", order.ID, mpPaymentID)
		} else {
			log.Printf("webhook: PERSISTENCE FAILURE updating order %s status: %v", order.ID, err)
			return nil, err
		}
	}

	return &WebhookResult{
		Handled:        true,
		OrderID:        order.ID,
		ExternalStatus: payment.Status,
		InternalStatus: internalStatus,
	}, nil
}

// findOrder locates the local order for an authoritative payment, by the
// checkout session it was created from, falling back to the external
// reference the preference carried.
func (s *webhookServiceImpl) findOrder(ctx context.Context, payment *model.MPPayment) (*model.Order, error) {
	if payment.PreferenceID != "" {
		order, err := s.orderRepo.FindByPreferenceID(ctx, payment.PreferenceID)
		if err == nil {
			return order, nil
		}
		if kind, ok := apperr.KindOf(err); !ok || kind != apperr.NotFound {
			return nil, err
		}
	}
	if payment.ExternalReference != "" {
		return s.orderRepo.FindByID(ctx, payment.ExternalReference)
	}
	return nil, apperr.New(apperr.NotFound, apperr.CodeOrderNotFound,
		"no order matches payment "+strconv.FormatInt(payment.ID, 10))
}
