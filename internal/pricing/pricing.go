// Package pricing computes order totals. All amounts are pence.
package pricing

// Line is one cart line with its resolved unit price.
type Line struct {
	UnitPrice int64
	Quantity  uint
}

type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	OrderTotal   int64 `json:"order_total"`
}

// Calculator is pure: the same instance must serve both the shipping
// estimate endpoint and final order-total computation so the two call
// sites can never diverge.
type Calculator struct {
	ShippingFee           int64
	FreeShippingThreshold int64
}

func (c Calculator) Subtotal(lines []Line) int64 {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}
	return subtotal
}

// ShippingCost is zero once the subtotal reaches the free-shipping
// threshold; the boundary itself ships free.
func (c Calculator) ShippingCost(subtotal int64) int64 {
	if subtotal >= c.FreeShippingThreshold {
		return 0
	}
	return c.ShippingFee
}

func (c Calculator) Totals(lines []Line) Totals {
	subtotal := c.Subtotal(lines)
	shipping := c.ShippingCost(subtotal)
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		OrderTotal:   subtotal + shipping,
	}
}

// ResolveUnitPrice applies a variant price override when present, else the
// product base price.
func ResolveUnitPrice(basePrice int64, override *int64) int64 {
	if override != nil {
		return *override
	}
	return basePrice
}
