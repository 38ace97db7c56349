package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, token string) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, token)
}

// AddItem puts one unit of a (product, variant) line into the cart,
// incrementing the quantity when the line already exists.
func (s *CartService) AddItem(ctx context.Context, token string, req transport.AddToCartRequest) ([]models.CartItem, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return nil, err
	}

	item := models.CartItem{
		SessionToken: token,
		ProductID:    req.ProductID,
		VariantID:    req.VariantID,
		Color:        req.Color,
		ColorName:    req.ColorName,
		Size:         req.Size,
		Quantity:     1,
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}
	return s.Repo.GetCart(ctx, token)
}

func (s *CartService) UpdateQuantity(ctx context.Context, token string, req transport.UpdateQuantityRequest) ([]models.CartItem, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if err := s.Repo.UpdateQuantity(ctx, token, req.ProductID, req.VariantID, req.Quantity); err != nil {
		return nil, err
	}
	return s.Repo.GetCart(ctx, token)
}

// RemoveItem deletes one line, or the whole cart when the sentinel product
// id "all" is supplied.
func (s *CartService) RemoveItem(ctx context.Context, token string, req transport.RemoveItemRequest) ([]models.CartItem, error) {
	if req.ProductID == repo.ClearCartProductID {
		if err := s.Repo.ClearCart(ctx, token); err != nil {
			return nil, err
		}
		return s.Repo.GetCart(ctx, token)
	}

	productID, err := strconv.ParseUint(req.ProductID, 10, 32)
	if err != nil || productID == 0 {
		return nil, fmt.Errorf("%w: invalid product_id %q", ErrValidation, req.ProductID)
	}
	if err := s.Repo.RemoveItem(ctx, token, uint(productID), req.VariantID); err != nil {
		return nil, err
	}
	return s.Repo.GetCart(ctx, token)
}
