package transport

type AddToCartRequest struct {
	ProductID uint   `json:"product_id"`
	VariantID string `json:"variant_id"`
	Color     string `json:"color"`
	ColorName string `json:"color_name"`
	Size      string `json:"size"`
}

type UpdateQuantityRequest struct {
	ProductID uint   `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  uint   `json:"quantity"`
}

// RemoveItemRequest carries the product id as a string so the "all"
// sentinel can clear the entire cart.
type RemoveItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

type DeliveryAddressRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	AddressLine1  string `json:"address_line1"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	DeliveryNotes string `json:"delivery_notes"`
}

type ShippingEstimateResponse struct {
	Subtotal              int64 `json:"subtotal"`
	ShippingCost          int64 `json:"shipping_cost"`
	OrderTotal            int64 `json:"order_total"`
	FreeShippingThreshold int64 `json:"free_shipping_threshold"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	OrderID   string `json:"order_id"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}
