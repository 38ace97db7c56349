package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/transport"
)

func initTestRepo(t *testing.T) *repo.GormRepo {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
		return nil
	}

	if err := db.AutoMigrate(
		&models.Product{}, &models.ProductVariant{}, &models.CartItem{},
		&models.CheckoutSession{}, &models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return repo.New(db)
}

func TestCartService_AddItem(t *testing.T) {
	r := initTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	require.NoError(t, r.DB.Create(&models.Product{Name: "Boba Plush", Price: 1500, Stock: 10}).Error)

	cart, err := svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 1, VariantID: "v1", Size: "M"})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(1), cart[0].Quantity)

	cart, err = svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 1, VariantID: "v1", Size: "M"})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(2), cart[0].Quantity)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc := &CartService{Repo: initTestRepo(t)}

	_, err := svc.AddItem(context.Background(), "tok", transport.AddToCartRequest{ProductID: 42})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_AddItem_MissingProductID(t *testing.T) {
	svc := &CartService{Repo: initTestRepo(t)}

	_, err := svc.AddItem(context.Background(), "tok", transport.AddToCartRequest{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	r := initTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	require.NoError(t, r.DB.Create(&models.Product{Name: "Boba Plush", Price: 1500, Stock: 10}).Error)
	_, err := svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "tok", transport.UpdateQuantityRequest{ProductID: 1, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, uint(4), cart[0].Quantity)

	// zero clamps to one rather than deleting the line
	cart, err = svc.UpdateQuantity(ctx, "tok", transport.UpdateQuantityRequest{ProductID: 1, Quantity: 0})
	require.NoError(t, err)
	require.Equal(t, uint(1), cart[0].Quantity)
}

func TestCartService_RemoveItem(t *testing.T) {
	r := initTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	require.NoError(t, r.DB.Create(&models.Product{Name: "Boba Plush", Price: 1500, Stock: 10}).Error)
	require.NoError(t, r.DB.Create(&models.Product{Name: "Bao Tee", Price: 1000, Stock: 10}).Error)
	_, err := svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 2})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "tok", transport.RemoveItemRequest{ProductID: "1"})
	require.NoError(t, err)
	require.Len(t, cart, 1)
	require.Equal(t, uint(2), cart[0].ProductID)
}

func TestCartService_RemoveItem_AllSentinel(t *testing.T) {
	r := initTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	require.NoError(t, r.DB.Create(&models.Product{Name: "Boba Plush", Price: 1500, Stock: 10}).Error)
	require.NoError(t, r.DB.Create(&models.Product{Name: "Bao Tee", Price: 1000, Stock: 10}).Error)
	_, err := svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "tok", transport.AddToCartRequest{ProductID: 2})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "tok", transport.RemoveItemRequest{ProductID: "all"})
	require.NoError(t, err)
	require.Len(t, cart, 0)
}

func TestCartService_RemoveItem_BadProductID(t *testing.T) {
	svc := &CartService{Repo: initTestRepo(t)}

	_, err := svc.RemoveItem(context.Background(), "tok", transport.RemoveItemRequest{ProductID: "nope"})
	require.ErrorIs(t, err, ErrValidation)
}
