package store

import (
	"context"

	"storefront-backend/model"
)

// Store is the persistence boundary: product/category catalog, the inventory
// counters and the order records all live in one Postgres database so a
// checkout can cover them with a single transaction.
type Store interface {
	CreateProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (model.Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]model.Product, error)
	GetStock(ctx context.Context, productID string) (int, error)
	UpdateStock(ctx context.Context, productID string, newStock int) error

	CreateCategory(ctx context.Context, c model.Category) error
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListPaidOrders(ctx context.Context, userID string) ([]model.Order, error)
	SetPaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error

	BeginCheckout(ctx context.Context) (CheckoutTx, error)
	Close() error
}

// CheckoutTx is one checkout attempt's transaction scope. It must be closed
// exactly once on every exit path; Rollback after Commit is a no-op, so
// callers can `defer tx.Rollback()` right after BeginCheckout.
type CheckoutTx interface {
	// ProductForUpdate reads a product and row-locks it for the rest of the
	// transaction. Returns sql.ErrNoRows for an unknown id.
	ProductForUpdate(ctx context.Context, productID string) (model.Product, error)
	InsertAddress(ctx context.Context, addr model.ShippingAddress) error
	// InsertOrder persists the order row plus its item snapshots.
	InsertOrder(ctx context.Context, order model.Order) error
	// DecrementStock subtracts quantity only if stock is still sufficient at
	// this point in the transaction; otherwise returns ErrInsufficientStock.
	DecrementStock(ctx context.Context, productID string, quantity int) error
	Commit() error
	Rollback() error
}
