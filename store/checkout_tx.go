package store

import (
	"context"
	"database/sql"

	"storefront-backend/model"
)

// BeginCheckout opens the transaction scope for one checkout attempt. The
// conflicting writes of concurrent checkouts are serialized by the row locks
// taken inside this transaction, not by any application-level locking.
func (s *PostgresStore) BeginCheckout(ctx context.Context) (CheckoutTx, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	return &checkoutTx{tx: tx}, nil
}

type checkoutTx struct {
	tx   *sql.Tx
	done bool
}

func (t *checkoutTx) ProductForUpdate(ctx context.Context, productID string) (model.Product, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, category_id, name, price, image, description, stock
		FROM products WHERE id=$1
		FOR UPDATE
	`, productID)
	p, err := scanProduct(row)
	if err != nil {
		return model.Product{}, classify(err)
	}
	return p, nil
}

func (t *checkoutTx) InsertAddress(ctx context.Context, addr model.ShippingAddress) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO addresses (id, line_1, line_2, city, state, zip_code, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, addr.ID, addr.Line1, addr.Line2, addr.City, addr.State, addr.ZipCode, addr.Phone)
	return classify(err)
}

func (t *checkoutTx) InsertOrder(ctx context.Context, order model.Order) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, address_id, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.UserID, order.ShippingAddress.ID, order.PaymentStatus, order.CreatedAt)
	if err != nil {
		return classify(err)
	}
	for i, it := range order.Items {
		_, err := t.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, name, price, image, description, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, order.ID, i, it.ProductID, it.Name, it.Price, it.Image, nullString(it.Description), it.Quantity)
		if err != nil {
			return classify(err)
		}
	}
	return nil
}

// DecrementStock is the conditional decrement: the WHERE clause re-checks
// sufficiency at write time, so two transactions racing for the last unit
// cannot both succeed.
func (t *checkoutTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`,
		quantity, productID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (t *checkoutTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return classify(err)
	}
	t.done = true
	return nil
}

func (t *checkoutTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
