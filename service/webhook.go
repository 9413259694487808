package service

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"storefront-backend/model"
)

// eventCheckoutCompleted is the only provider event type that moves an order
// to PAID. Every other type is acknowledged and ignored.
const eventCheckoutCompleted = "checkout.session.completed"

// HandlePaymentNotification reconciles a provider notification with order
// state. The handler trusts the orderId in the payload; notification
// authenticity is enforced upstream of this service.
//
// Replays are safe: re-applying PAID to an already-PAID order is a no-op.
// An unknown order is surfaced as NotFoundError so the transport can answer
// non-200 and the provider's delivery retry kicks in.
func (s *Service) HandlePaymentNotification(ctx context.Context, event model.WebhookEvent) error {
	if event.Type != eventCheckoutCompleted {
		s.metrics.WebhookEvents.WithLabelValues(event.Type, "ignored").Inc()
		return nil
	}

	orderID := event.Data.Object.Metadata["orderId"]
	if orderID == "" {
		s.metrics.WebhookEvents.WithLabelValues(event.Type, "malformed").Inc()
		return model.Validationf("no order id in session metadata")
	}

	if err := s.store.SetPaymentStatus(ctx, orderID, model.PaymentStatusPaid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.WebhookEvents.WithLabelValues(event.Type, "unknown_order").Inc()
			return model.NotFoundf("order %s not found", orderID)
		}
		s.metrics.WebhookEvents.WithLabelValues(event.Type, "error").Inc()
		return err
	}

	s.metrics.WebhookEvents.WithLabelValues(event.Type, "paid").Inc()
	log.Printf("order %s marked as PAID", orderID)
	return nil
}
