package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobaandbao/storefront/internal/models"
)

func testOrder(orderID, sessionID string) *models.Order {
	return &models.Order{
		OrderID:          orderID,
		GatewaySessionID: sessionID,
		CustomerEmail:    "jamie@example.com",
		CustomerName:     "Jamie Lee",
		DeliveryAddress:  "1 Tea Lane\nLondon\nE1 1AA",
		Subtotal:         2000,
		ShippingCost:     350,
		OrderTotal:       2350,
		OrderStatus:      models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusPending,
	}
}

func TestCreateOrder_WithItems(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	order := testOrder("ORD1abc", "cs_1")
	items := []models.OrderItem{
		{ProductID: 1, ProductName: "Boba Plush", Quantity: 2, UnitPrice: 500, TotalPrice: 1000},
		{ProductID: 2, VariantID: "v1", ProductName: "Bao Tee", Quantity: 1, UnitPrice: 1000, TotalPrice: 1000},
	}

	id, err := r.CreateOrder(ctx, order, items)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := r.GetOrderItems(ctx, "ORD1abc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ORD1abc", got[0].OrderID)
	require.Equal(t, "ORD1abc", got[1].OrderID)
}

func TestCreateOrder_DuplicateOrderID(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	_, err := r.CreateOrder(ctx, testOrder("ORD1abc", "cs_1"), nil)
	require.NoError(t, err)

	_, err = r.CreateOrder(ctx, testOrder("ORD1abc", "cs_2"), nil)
	require.Error(t, err)
}

func TestUpdateOrderStatus_BySessionID(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	_, err := r.CreateOrder(ctx, testOrder("ORD1abc", "cs_1"), nil)
	require.NoError(t, err)

	ok, err := r.UpdateOrderStatus(ctx, "cs_1", models.OrderStatusConfirmed, models.PaymentStatusPaid)
	require.NoError(t, err)
	require.True(t, ok)

	order, err := r.GetOrderBySessionID(ctx, "cs_1")
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusConfirmed, order.OrderStatus)
	require.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestUpdateOrderStatus_UnknownSession(t *testing.T) {
	r := InitTestDB(t)

	ok, err := r.UpdateOrderStatus(context.Background(), "cs_missing", models.OrderStatusConfirmed, models.PaymentStatusPaid)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateOrderStatusByID_PartialUpdate(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	id, err := r.CreateOrder(ctx, testOrder("ORD1abc", "cs_1"), nil)
	require.NoError(t, err)

	require.NoError(t, r.UpdateOrderStatusByID(ctx, id, models.OrderStatusShipped, ""))

	order, err := r.GetOrderByRowID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusShipped, order.OrderStatus)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	require.ErrorIs(t, r.UpdateOrderStatusByID(ctx, 999, models.OrderStatusShipped, ""), ErrOrderNotFound)
}

func TestGetOrderBySessionID_NotFound(t *testing.T) {
	r := InitTestDB(t)

	_, err := r.GetOrderBySessionID(context.Background(), "cs_missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders_FilterAndCount(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	_, err := r.CreateOrder(ctx, testOrder("ORD1", "cs_1"), nil)
	require.NoError(t, err)
	_, err = r.CreateOrder(ctx, testOrder("ORD2", "cs_2"), nil)
	require.NoError(t, err)

	ok, err := r.UpdateOrderStatus(ctx, "cs_2", models.OrderStatusConfirmed, models.PaymentStatusPaid)
	require.NoError(t, err)
	require.True(t, ok)

	all, total, err := r.ListOrders(ctx, "", 20, 0)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	confirmed, total, err := r.ListOrders(ctx, models.OrderStatusConfirmed, 20, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, confirmed, 1)
	require.Equal(t, "ORD2", confirmed[0].OrderID)
}

func TestDeleteOrder_RemovesItems(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	id, err := r.CreateOrder(ctx, testOrder("ORD1abc", "cs_1"), []models.OrderItem{
		{ProductID: 1, ProductName: "Boba Plush", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
	})
	require.NoError(t, err)

	require.NoError(t, r.DeleteOrder(ctx, id))

	_, err = r.GetOrderByRowID(ctx, id)
	require.ErrorIs(t, err, ErrOrderNotFound)

	items, err := r.GetOrderItems(ctx, "ORD1abc")
	require.NoError(t, err)
	require.Len(t, items, 0)

	require.ErrorIs(t, r.DeleteOrder(ctx, id), ErrOrderNotFound)
}

func TestDeleteOrders_SkipsMissing(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	id, err := r.CreateOrder(ctx, testOrder("ORD1abc", "cs_1"), nil)
	require.NoError(t, err)

	require.NoError(t, r.DeleteOrders(ctx, []uint{id, 999}))

	_, total, err := r.ListOrders(ctx, "", 20, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}
