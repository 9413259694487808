package service

import (
	"context"

	"storefront-backend/model"
)

// ServiceInterface is what the HTTP layer programs against.
type ServiceInterface interface {
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	UpdateProduct(ctx context.Context, p model.Product) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (model.Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]model.Product, error)
	GetStock(ctx context.Context, productID string) (int, error)
	UpdateStock(ctx context.Context, productID string, newStock int) error

	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	UpdateCategory(ctx context.Context, c model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListMyOrders(ctx context.Context, userID string) ([]model.Order, error)

	PlaceOrder(ctx context.Context, userID string, req model.CheckoutRequest) (*model.Order, error)
	CreateCheckoutSession(ctx context.Context, userID string, req model.CheckoutRequest) (*model.Order, string, error)
	HandlePaymentNotification(ctx context.Context, event model.WebhookEvent) error
}
