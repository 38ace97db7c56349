package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/bobaandbao/storefront/internal/middleware/auth"
)

type Deps struct {
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	WebhookHandler  *WebhookHandler
	AdminHandler    *AdminHandler
	AdminJWTSecret  []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.DELETE("", d.CartHandler.RemoveFromCart)

	checkout := v1.Group("/checkout")
	checkout.POST("/address", d.CheckoutHandler.SubmitAddress)
	checkout.POST("/order", d.CheckoutHandler.CreateOrder)
	checkout.GET("/shipping", d.CheckoutHandler.ShippingEstimate)
	checkout.POST("/session", d.CheckoutHandler.CreateSession)

	e.POST("/webhooks/stripe", d.WebhookHandler.HandleStripe)
	e.GET("/checkout/success", d.CheckoutHandler.Success)

	admin := v1.Group("/admin", authmw.RequireAdmin(d.AdminJWTSecret))
	admin.GET("/orders", d.AdminHandler.ListOrders)
	admin.GET("/orders/:id", d.AdminHandler.GetOrder)
	admin.PATCH("/orders/:id", d.AdminHandler.UpdateOrderStatus)
	admin.DELETE("/orders/:id", d.AdminHandler.DeleteOrder)
	admin.POST("/orders/bulk-delete", d.AdminHandler.BulkDeleteOrders)
	admin.POST("/orders/:id/test-notification", d.AdminHandler.TestNotification)
}
