package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bobaandbao/storefront/internal/models"
)

// GetOrCreateSession loads the checkout session for a token, creating an
// empty one when the token is new.
func (r *GormRepo) GetOrCreateSession(ctx context.Context, token string) (*models.CheckoutSession, error) {
	var sess models.CheckoutSession
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if err == nil {
		return &sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sess = models.CheckoutSession{Token: token}
	if err := r.DB.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (r *GormRepo) SaveSession(ctx context.Context, sess *models.CheckoutSession) error {
	return r.DB.WithContext(ctx).Save(sess).Error
}

// ResetSession drops the drafted order and address for a token. The row
// itself survives so the cookie keeps working.
func (r *GormRepo) ResetSession(ctx context.Context, token string) error {
	return r.DB.WithContext(ctx).Model(&models.CheckoutSession{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"customer_name": "", "email": "",
			"address_line1": "", "address_line2": "",
			"city": "", "state": "", "postal_code": "", "country": "", "notes": "",
			"order_id": "", "address": "",
			"subtotal": 0, "shipping_cost": 0, "order_total": 0,
		}).Error
}
