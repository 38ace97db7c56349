package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// All money columns are minor currency units (pence).

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null"                 json:"name"`
	Description string `json:"description"`
	SKU         string `gorm:"index"                    json:"sku"`
	Price       int64  `gorm:"not null"                 json:"price"`
	Stock       uint   `json:"stock"`
	SoldOut     bool   `gorm:"default:false"            json:"sold_out"`
}

// ProductVariant is a color/size combination with its own stock and an
// optional price override. A nil Price falls back to the product price.
type ProductVariant struct {
	ID        string `gorm:"primaryKey"      json:"id"`
	ProductID uint   `gorm:"index;not null"  json:"product_id"`
	Color     string `json:"color"`
	ColorName string `json:"color_name"`
	Size      string `json:"size"`
	Price     *int64 `json:"price,omitempty"`
	Stock     uint   `json:"stock"`
	SoldOut   bool   `gorm:"default:false"   json:"sold_out"`
}

type CartItem struct {
	ID           uint   `gorm:"primaryKey"                            json:"id"`
	SessionToken string `gorm:"uniqueIndex:idx_cart_line;not null"    json:"-"`
	ProductID    uint   `gorm:"uniqueIndex:idx_cart_line;not null"    json:"product_id"`
	VariantID    string `gorm:"uniqueIndex:idx_cart_line;default:''"  json:"variant_id"`
	Color        string `json:"color"`
	ColorName    string `json:"color_name"`
	Size         string `json:"size"`
	Quantity     uint   `gorm:"default:1;check:quantity>0"            json:"quantity"`
}

// CheckoutSession carries the per-token checkout state: the delivery address
// once submitted, and the drafted order once totals are computed. It replaces
// ambient web-session storage so the orchestrator's inputs stay explicit.
type CheckoutSession struct {
	ID           uint      `gorm:"primaryKey"       json:"id"`
	Token        string    `gorm:"unique;not null"  json:"-"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"customer_email"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Country      string    `json:"country"`
	Notes        string    `json:"delivery_notes"`
	OrderID      string    `json:"order_id"`
	Address      string    `json:"delivery_address"`
	Subtotal     int64     `json:"subtotal"`
	ShippingCost int64     `json:"shipping_cost"`
	OrderTotal   int64     `json:"order_total"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAddress reports whether a delivery address has been submitted.
func (s *CheckoutSession) HasAddress() bool {
	return s.Email != ""
}

// HasDraft reports whether an order draft has been created.
func (s *CheckoutSession) HasDraft() bool {
	return s.OrderID != ""
}

type Order struct {
	ID                uint      `gorm:"primaryKey"           json:"id"`
	OrderID           string    `gorm:"unique;not null"      json:"order_id"`
	GatewaySessionID  string    `gorm:"uniqueIndex;not null" json:"gateway_session_id"`
	GatewayCustomerID string    `json:"gateway_customer_id"`
	CustomerEmail     string    `gorm:"not null"             json:"customer_email"`
	CustomerName      string    `gorm:"not null"             json:"customer_name"`
	DeliveryAddress   string    `gorm:"not null"             json:"delivery_address"`
	DeliveryNotes     string    `json:"delivery_notes"`
	Subtotal          int64     `gorm:"not null"             json:"subtotal"`
	ShippingCost      int64     `gorm:"not null"             json:"shipping_cost"`
	OrderTotal        int64     `gorm:"not null"             json:"order_total"`
	OrderStatus       string    `gorm:"not null;default:pending;index" json:"order_status"`
	PaymentStatus     string    `gorm:"not null;default:pending;index" json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// OrderItem is a point-in-time snapshot of a purchased line. Name, SKU and
// prices are frozen at purchase time and never recomputed from the catalog.
// Relates to Order via the order_id business key, not the surrogate key.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey"       json:"id"`
	OrderID     string    `gorm:"index;not null"   json:"order_id"`
	ProductID   uint      `gorm:"index;not null"   json:"product_id"`
	VariantID   string    `gorm:"index;default:''" json:"variant_id"`
	ProductName string    `gorm:"not null"         json:"product_name"`
	ProductSKU  string    `json:"product_sku"`
	Quantity    uint      `gorm:"default:1;check:quantity>0" json:"quantity"`
	UnitPrice   int64     `gorm:"not null"         json:"unit_price"`
	TotalPrice  int64     `gorm:"not null"         json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}
