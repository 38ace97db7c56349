package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrPersistence = errors.New("persistence") // 500, always logged
)

// StockShortfall names one cart line the catalog cannot satisfy.
type StockShortfall struct {
	ProductID   uint   `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	ProductName string `json:"product_name"`
	Requested   uint   `json:"requested"`
	Available   uint   `json:"available"`
}

// InsufficientStockError carries every shortfall so the customer can fix
// the whole cart in one pass.
type InsufficientStockError struct {
	Items []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d",
			it.ProductName, it.Requested, it.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
