package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"storefront-backend/metrics"
	"storefront-backend/model"
	"storefront-backend/payment"
	"storefront-backend/store"
)

// Config carries the deployment-specific pieces of the service.
type Config struct {
	// FrontendURL is where the payment provider redirects the client after a
	// session completes or is cancelled.
	FrontendURL string
	// PublicBaseURL prefixes relative product image paths so the provider
	// receives absolute URLs.
	PublicBaseURL string
}

type Service struct {
	store    store.Store
	payments payment.Provider
	cfg      Config
	metrics  *metrics.Metrics
}

func NewService(st store.Store, payments payment.Provider, cfg Config, m *metrics.Metrics) *Service {
	return &Service{store: st, payments: payments, cfg: cfg, metrics: m}
}

// --- products ---

func (s *Service) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}
	p.ID = uuid.NewString()
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		return model.Product{}, model.Validationf("product id is required")
	}
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return model.Product{}, notFoundIfNoRows(err, "product", p.ID)
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return notFoundIfNoRows(s.store.DeleteProduct(ctx, id), "product", id)
}

func (s *Service) GetProduct(ctx context.Context, id string) (model.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return model.Product{}, notFoundIfNoRows(err, "product", id)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, categoryID string) ([]model.Product, error) {
	return s.store.ListProducts(ctx, categoryID)
}

func (s *Service) GetStock(ctx context.Context, productID string) (int, error) {
	stock, err := s.store.GetStock(ctx, productID)
	if err != nil {
		return 0, notFoundIfNoRows(err, "product", productID)
	}
	return stock, nil
}

func (s *Service) UpdateStock(ctx context.Context, productID string, newStock int) error {
	if newStock < 0 {
		return model.Validationf("stock cannot be negative")
	}
	return notFoundIfNoRows(s.store.UpdateStock(ctx, productID, newStock), "product", productID)
}

// --- categories ---

func (s *Service) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Category{}, model.Validationf("category name is required")
	}
	c.ID = uuid.NewString()
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if c.ID == "" {
		return model.Category{}, model.Validationf("category id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return model.Category{}, model.Validationf("category name is required")
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return model.Category{}, notFoundIfNoRows(err, "category", c.ID)
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return notFoundIfNoRows(s.store.DeleteCategory(ctx, id), "category", id)
}

func (s *Service) GetCategory(ctx context.Context, id string) (model.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return model.Category{}, notFoundIfNoRows(err, "category", id)
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

// --- orders (read side) ---

func (s *Service) GetOrder(ctx context.Context, id string) (model.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return model.Order{}, notFoundIfNoRows(err, "order", id)
	}
	return o, nil
}

// ListMyOrders returns the caller's PAID orders, newest first.
func (s *Service) ListMyOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if userID == "" {
		return nil, model.Validationf("user id is required")
	}
	return s.store.ListPaidOrders(ctx, userID)
}

// --- helpers ---

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return model.Validationf("product name is required")
	}
	if p.Price.IsNegative() {
		return model.Validationf("product price must be >= 0")
	}
	if p.Stock < 0 {
		return model.Validationf("product stock cannot be negative")
	}
	return nil
}

func notFoundIfNoRows(err error, resource, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFoundf("%s %s not found", resource, id)
	}
	return err
}
