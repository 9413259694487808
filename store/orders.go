package store

import (
	"context"
	"database/sql"

	"storefront-backend/model"
)

const orderSelect = `
	SELECT o.id, o.user_id, o.payment_status, o.created_at,
	       a.id, a.line_1, a.line_2, a.city, a.state, a.zip_code, a.phone
	FROM orders o
	JOIN addresses a ON a.id = o.address_id
`

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (model.Order, error) {
	row := s.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return model.Order{}, err
	}
	order.Items, err = s.orderItems(ctx, order.ID)
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// ListPaidOrders returns a user's PAID orders, newest first. PENDING orders
// never show up here.
func (s *PostgresStore) ListPaidOrders(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := s.DB.QueryContext(ctx,
		orderSelect+` WHERE o.user_id = $1 AND o.payment_status = $2 ORDER BY o.created_at DESC`,
		userID, model.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = s.orderItems(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetPaymentStatus updates only the payment status. Re-applying PAID to an
// already-PAID order matches the row again and stays a no-op.
func (s *PostgresStore) SetPaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE orders SET payment_status = $2 WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.PaymentStatus, &o.CreatedAt,
		&o.ShippingAddress.ID, &o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.ZipCode,
		&o.ShippingAddress.Phone)
	return o, err
}

func (s *PostgresStore) orderItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT product_id, name, price, image, description, quantity
		FROM order_items WHERE order_id = $1 ORDER BY position
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		var description sql.NullString
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Image, &description, &it.Quantity); err != nil {
			return nil, err
		}
		it.Description = description.String
		items = append(items, it)
	}
	return items, rows.Err()
}
