package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bobaandbao/storefront/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// CreateOrder inserts the order row and all of its line items in a single
// transaction: a line-item failure rolls the order back, so an order row
// never exists without its snapshot.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (uint, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.OrderID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// UpdateOrderStatus updates both status columns keyed by the gateway session
// id. Returns false when no order matches.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, gatewaySessionID, orderStatus, paymentStatus string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("gateway_session_id = ?", gatewaySessionID).
		Updates(map[string]any{
			"order_status":   orderStatus,
			"payment_status": paymentStatus,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateOrderStatusByID is the admin path: manual status changes keyed by
// the surrogate id. Empty fields are left untouched.
func (r *GormRepo) UpdateOrderStatusByID(ctx context.Context, id uint, orderStatus, paymentStatus string) error {
	updates := map[string]any{}
	if orderStatus != "" {
		updates["order_status"] = orderStatus
	}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *GormRepo) UpdateOrderCustomerID(ctx context.Context, gatewaySessionID, customerID string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("gateway_session_id = ?", gatewaySessionID).
		Update("gateway_customer_id", customerID).Error
}

func (r *GormRepo) GetOrderBySessionID(ctx context.Context, gatewaySessionID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("gateway_session_id = ?", gatewaySessionID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderByRowID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderItems fetches line items by the order's business key.
func (r *GormRepo) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status string, limit, offset int) ([]models.Order, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("order_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// DeleteOrder removes an order and its line items, children first, in one
// transaction so a partial failure cannot orphan items.
func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.OrderID).
			Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

func (r *GormRepo) DeleteOrders(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if err := r.DeleteOrder(ctx, id); err != nil && !errors.Is(err, ErrOrderNotFound) {
			return err
		}
	}
	return nil
}
