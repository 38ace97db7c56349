package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/pricing"
)

var ErrProductNotFound = errors.New("product not found")

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetVariant(ctx context.Context, variantID string) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.DB.WithContext(ctx).Where("id = ?", variantID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UnitPrice resolves the price for a cart line: the variant override when the
// variant carries one, otherwise the product base price.
func (r *GormRepo) UnitPrice(ctx context.Context, productID uint, variantID string) (int64, error) {
	p, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if variantID == "" {
		return p.Price, nil
	}
	v, err := r.GetVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return pricing.ResolveUnitPrice(p.Price, v.Price), nil
}

// AvailableStock returns the variant stock when a variant id is present,
// else the product stock.
func (r *GormRepo) AvailableStock(ctx context.Context, productID uint, variantID string) (uint, error) {
	if variantID != "" {
		v, err := r.GetVariant(ctx, variantID)
		if err != nil {
			return 0, err
		}
		return v.Stock, nil
	}
	p, err := r.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

// DecrementStock subtracts quantity from the product's (or variant's) stock,
// flooring at zero and flagging sold-out when the floor is hit.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uint, variantID string, quantity uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if variantID != "" {
			var v models.ProductVariant
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", variantID).First(&v).Error; err != nil {
				return err
			}
			remaining := uint(0)
			if v.Stock > quantity {
				remaining = v.Stock - quantity
			}
			return tx.Model(&v).Updates(map[string]any{
				"stock":    remaining,
				"sold_out": remaining == 0,
			}).Error
		}

		var p models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, productID).Error; err != nil {
			return err
		}
		remaining := uint(0)
		if p.Stock > quantity {
			remaining = p.Stock - quantity
		}
		return tx.Model(&p).Updates(map[string]any{
			"stock":    remaining,
			"sold_out": remaining == 0,
		}).Error
	})
}
