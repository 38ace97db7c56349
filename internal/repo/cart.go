package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bobaandbao/storefront/internal/models"
)

// ClearCartProductID is the sentinel product id that empties the whole cart.
const ClearCartProductID = "all"

func (r *GormRepo) GetCart(ctx context.Context, token string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("session_token = ?", token).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart increments the quantity of an existing (product, variant) line
// by one, or inserts a new line with quantity 1.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("session_token = ? AND product_id = ? AND variant_id = ?",
				item.SessionToken, item.ProductID, item.VariantID).
			Update("quantity", gorm.Expr("quantity + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("session_token = ? AND product_id = ? AND variant_id = ?",
				item.SessionToken, item.ProductID, item.VariantID).
				First(item).Error
		}

		if item.Quantity == 0 {
			item.Quantity = 1
		}
		return tx.Create(item).Error
	})
}

// UpdateQuantity overwrites the quantity of an existing line, clamped to a
// minimum of 1. Absent lines are left untouched.
func (r *GormRepo) UpdateQuantity(ctx context.Context, token string, productID uint, variantID string, quantity uint) error {
	if quantity < 1 {
		quantity = 1
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_token = ? AND product_id = ? AND variant_id = ?", token, productID, variantID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&item).Update("quantity", quantity).Error
	})
}

func (r *GormRepo) RemoveItem(ctx context.Context, token string, productID uint, variantID string) error {
	return r.DB.WithContext(ctx).
		Where("session_token = ? AND product_id = ? AND variant_id = ?", token, productID, variantID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).
		Where("session_token = ?", token).
		Delete(&models.CartItem{}).Error
}
