package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/model"
	"storefront-backend/payment"
	"storefront-backend/retry"
	"storefront-backend/store"
)

// checkoutAttempts bounds how often a checkout transaction is replayed after
// losing a write race. Business failures are never replayed.
const checkoutAttempts = 3

var centsPerUnit = decimal.NewFromInt(100)

// PlaceOrder validates the cart, reserves stock and records the order as one
// atomic unit. The returned order is PENDING.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req model.CheckoutRequest) (*model.Order, error) {
	order, _, err := s.checkout(ctx, userID, req, false)
	return order, err
}

// CreateCheckoutSession does everything PlaceOrder does and additionally asks
// the payment provider for a session inside the same atomicity boundary: a
// committed order always has a live session, and a failed session request
// leaves no order and no stock change behind.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID string, req model.CheckoutRequest) (*model.Order, string, error) {
	return s.checkout(ctx, userID, req, true)
}

func (s *Service) checkout(ctx context.Context, userID string, req model.CheckoutRequest, withSession bool) (*model.Order, string, error) {
	var (
		order      *model.Order
		sessionURL string
		attempt    int
	)
	err := retry.Do(checkoutAttempts, model.IsTransientConflict, func() error {
		attempt++
		if attempt > 1 {
			s.metrics.CheckoutRetries.Inc()
		}
		var err error
		order, sessionURL, err = s.checkoutAttempt(ctx, userID, req, withSession)
		return err
	})
	s.metrics.CheckoutAttempts.WithLabelValues(checkoutResult(err)).Inc()
	if err != nil {
		return nil, "", err
	}
	return order, sessionURL, nil
}

// checkoutAttempt is one transactional attempt. Each call gets a fresh
// transaction scope and closes it exactly once on every exit path.
func (s *Service) checkoutAttempt(ctx context.Context, userID string, req model.CheckoutRequest, withSession bool) (*model.Order, string, error) {
	if userID == "" {
		return nil, "", model.Validationf("user id is required")
	}
	if err := validateCheckoutRequest(req); err != nil {
		return nil, "", err
	}

	tx, err := s.store.BeginCheckout(ctx)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	for _, item := range req.Items {
		p, err := tx.ProductForUpdate(ctx, item.Product.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", model.Validationf("product %s not found", item.Product.ID)
		}
		if err != nil {
			return nil, "", err
		}
		if p.Stock < item.Quantity {
			return nil, "", model.Validationf(
				"insufficient stock for product %s: available %d, requested %d",
				p.Name, p.Stock, item.Quantity)
		}
	}

	addr := req.ShippingAddress
	addr.ID = uuid.NewString()
	if err := tx.InsertAddress(ctx, addr); err != nil {
		return nil, "", err
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           snapshotItems(req.Items),
		ShippingAddress: addr,
		PaymentStatus:   model.PaymentStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := tx.InsertOrder(ctx, *order); err != nil {
		return nil, "", err
	}

	for _, item := range req.Items {
		if err := tx.DecrementStock(ctx, item.Product.ID, item.Quantity); err != nil {
			if errors.Is(err, store.ErrInsufficientStock) {
				return nil, "", model.Validationf("product %s is now out of stock", item.Product.Name)
			}
			return nil, "", err
		}
	}

	sessionURL := ""
	if withSession {
		sess, err := s.payments.CreateSession(ctx, s.sessionRequest(order))
		if err != nil {
			return nil, "", &model.UpstreamError{Op: "create payment session", Err: err}
		}
		sessionURL = sess.URL
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return order, sessionURL, nil
}

func validateCheckoutRequest(req model.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return model.Validationf("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Product.ID == "" {
			return model.Validationf("each item must reference a product")
		}
		if item.Quantity <= 0 {
			return model.Validationf("quantity for product %s must be > 0", item.Product.ID)
		}
	}
	a := req.ShippingAddress
	for _, field := range []struct{ name, value string }{
		{"line_1", a.Line1}, {"line_2", a.Line2}, {"city", a.City},
		{"state", a.State}, {"zip_code", a.ZipCode}, {"phone", a.Phone},
	} {
		if field.value == "" {
			return model.Validationf("shipping address %s is required", field.name)
		}
	}
	return nil
}

// snapshotItems copies the submitted product data into order-owned snapshots.
func snapshotItems(items []model.CheckoutItem) []model.OrderItem {
	out := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.OrderItem{
			ProductID:   item.Product.ID,
			Name:        item.Product.Name,
			Price:       item.Product.Price,
			Image:       item.Product.Image,
			Description: item.Product.Description,
			Quantity:    item.Quantity,
		})
	}
	return out
}

func (s *Service) sessionRequest(order *model.Order) payment.SessionRequest {
	lineItems := make([]payment.LineItem, 0, len(order.Items))
	for _, it := range order.Items {
		description := it.Description
		if description == "" {
			description = "No description available"
		}
		lineItems = append(lineItems, payment.LineItem{
			Name:        it.Name,
			Description: description,
			Image:       s.cfg.PublicBaseURL + it.Image,
			UnitAmount:  it.Price.Mul(centsPerUnit).Round(0).IntPart(),
			Currency:    "usd",
			Quantity:    int64(it.Quantity),
		})
	}
	return payment.SessionRequest{
		OrderID:    order.ID,
		LineItems:  lineItems,
		SuccessURL: s.cfg.FrontendURL + "/complete?order_id=" + order.ID,
		CancelURL:  s.cfg.FrontendURL + "/cancel",
	}
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return "committed"
	case model.IsValidation(err):
		return "validation_failed"
	case model.IsUpstream(err):
		return "upstream_failed"
	case model.IsTransientConflict(err):
		return "conflict_exhausted"
	default:
		return "error"
	}
}
