// Package notify sends customer-facing order messages. A send failure never
// blocks order confirmation; callers log and move on.
package notify

import (
	"fmt"
	"strings"

	"github.com/bobaandbao/storefront/internal/models"
)

type Sender interface {
	SendOrderConfirmation(order *models.Order, items []models.OrderItem) error
}

// ConfirmationSubject and ConfirmationBody format the plain-text message
// sent once an order is confirmed.
func ConfirmationSubject(order *models.Order) string {
	return "Order Confirmation - " + order.OrderID
}

func ConfirmationBody(order *models.Order, items []models.OrderItem) string {
	var b strings.Builder

	b.WriteString("Thank you for your order!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Order Total: %s\n", Pounds(order.OrderTotal))
	fmt.Fprintf(&b, "Shipping Cost: %s\n", Pounds(order.ShippingCost))
	fmt.Fprintf(&b, "Subtotal: %s\n\n", Pounds(order.Subtotal))

	if len(items) > 0 {
		b.WriteString("Items:\n")
		for _, it := range items {
			fmt.Fprintf(&b, "  %d x %s - %s\n", it.Quantity, it.ProductName, Pounds(it.TotalPrice))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Delivery Address:\n%s\n\n", order.DeliveryAddress)
	if order.DeliveryNotes != "" {
		fmt.Fprintf(&b, "Delivery Notes: %s\n\n", order.DeliveryNotes)
	}

	b.WriteString("We'll process your order and ship it soon.\n\n")
	b.WriteString("Best regards,\nBoba & Bao")

	return b.String()
}

// Pounds renders a pence amount as a £ string.
func Pounds(pence int64) string {
	return fmt.Sprintf("£%d.%02d", pence/100, pence%100)
}
