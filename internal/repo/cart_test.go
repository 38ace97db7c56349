package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bobaandbao/storefront/internal/models"
)

func TestAddToCart_NewLine(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	item := models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v1", Color: "#8B4513", Size: "M"}
	require.NoError(t, r.AddToCart(ctx, &item))
	require.Equal(t, uint(1), item.Quantity)

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(1), cart[0].Quantity)
}

func TestAddToCart_IncrementsExistingLine(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	first := models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v1"}
	require.NoError(t, r.AddToCart(ctx, &first))

	second := models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v1"}
	require.NoError(t, r.AddToCart(ctx, &second))
	require.Equal(t, uint(2), second.Quantity)

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(2), cart[0].Quantity)
}

func TestAddToCart_VariantsAreSeparateLines(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v1"}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v2"}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1}))

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 3)
}

func TestUpdateQuantity_ClampsToOne(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1}))

	require.NoError(t, r.UpdateQuantity(ctx, "tok", 1, "", 0))
	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, uint(1), cart[0].Quantity)

	require.NoError(t, r.UpdateQuantity(ctx, "tok", 1, "", 5))
	cart, err = r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, uint(5), cart[0].Quantity)
}

func TestUpdateQuantity_MissingLineIsNoOp(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.UpdateQuantity(ctx, "tok", 99, "", 3))

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 0)
}

func TestRemoveItem(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1, VariantID: "v1"}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 2}))

	require.NoError(t, r.RemoveItem(ctx, "tok", 1, "v1"))

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(2), cart[0].ProductID)
}

func TestClearCart_OnlyTouchesOwnToken(t *testing.T) {
	r := InitTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 1}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "tok", ProductID: 2}))
	require.NoError(t, r.AddToCart(ctx, &models.CartItem{SessionToken: "other", ProductID: 3}))

	require.NoError(t, r.ClearCart(ctx, "tok"))

	cart, err := r.GetCart(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, cart, 0)

	other, err := r.GetCart(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
}
