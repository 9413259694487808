package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront-backend/model"
)

func TestCreateProduct_ValidationAndIDAssignment(t *testing.T) {
	st := newMemStore()
	svc := newTestService(st, &fakeProvider{})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, model.Product{Name: "", Price: decimal.Zero})
	require.True(t, model.IsValidation(err))

	_, err = svc.CreateProduct(ctx, model.Product{Name: "Mug", Price: decimal.RequireFromString("-1")})
	require.True(t, model.IsValidation(err))

	_, err = svc.CreateProduct(ctx, model.Product{Name: "Mug", Price: decimal.Zero, Stock: -1})
	require.True(t, model.IsValidation(err))

	created, err := svc.CreateProduct(ctx, model.Product{
		Name: "Mug", Price: decimal.RequireFromString("12.50"), Image: "/img/mug.png", Stock: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Mug", got.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeProvider{})
	_, err := svc.GetProduct(context.Background(), "ghost")
	require.True(t, model.IsNotFound(err), "expected not-found, got %v", err)
}

func TestUpdateStock_Validation(t *testing.T) {
	st := newMemStore(mugProduct(5))
	svc := newTestService(st, &fakeProvider{})
	ctx := context.Background()

	require.True(t, model.IsValidation(svc.UpdateStock(ctx, "p1", -1)))
	require.NoError(t, svc.UpdateStock(ctx, "p1", 9))

	stock, err := svc.GetStock(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 9, stock)

	require.True(t, model.IsNotFound(svc.UpdateStock(ctx, "ghost", 1)))
}

func TestCreateCategory_RequiresName(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeProvider{})
	_, err := svc.CreateCategory(context.Background(), model.Category{Name: "  "})
	require.True(t, model.IsValidation(err))
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := newTestService(newMemStore(), &fakeProvider{})
	_, err := svc.GetOrder(context.Background(), "ghost")
	require.True(t, model.IsNotFound(err))
}

// My-orders must never surface a PENDING order.
func TestListMyOrders_OnlyPaidNewestFirst(t *testing.T) {
	st := newMemStore()
	now := time.Now().UTC()

	paidOld := pendingOrder("o1", "user-1")
	paidOld.PaymentStatus = model.PaymentStatusPaid
	paidOld.CreatedAt = now.Add(-2 * time.Hour)

	paidNew := pendingOrder("o2", "user-1")
	paidNew.PaymentStatus = model.PaymentStatusPaid
	paidNew.CreatedAt = now

	pending := pendingOrder("o3", "user-1")
	otherUser := pendingOrder("o4", "user-2")
	otherUser.PaymentStatus = model.PaymentStatusPaid

	for _, o := range []model.Order{paidOld, paidNew, pending, otherUser} {
		st.orders[o.ID] = o
	}

	svc := newTestService(st, &fakeProvider{})
	orders, err := svc.ListMyOrders(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "o2", orders[0].ID)
	require.Equal(t, "o1", orders[1].ID)

	_, err = svc.ListMyOrders(context.Background(), "")
	require.True(t, model.IsValidation(err))
}
