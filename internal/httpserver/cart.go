package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bobaandbao/storefront/internal/events"
	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/service"
	"github.com/bobaandbao/storefront/internal/transport"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *events.Producer
}

func (h *CartHandler) publish(c echo.Context, token string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, token, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish", "error", err)
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	token := sessionToken(c)

	items, err := h.Svc.GetCart(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	token := sessionToken(c)

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Svc.AddItem(c.Request().Context(), token, req)
	if err != nil {
		return respondError(c, err)
	}

	h.publish(c, token, map[string]any{
		"type":       "cart_item_added",
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
	})
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	token := sessionToken(c)

	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Svc.UpdateQuantity(c.Request().Context(), token, req)
	if err != nil {
		return respondError(c, err)
	}

	h.publish(c, token, map[string]any{
		"type":       "cart_quantity_updated",
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
	})
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	token := sessionToken(c)

	var req transport.RemoveItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Svc.RemoveItem(c.Request().Context(), token, req)
	if err != nil {
		return respondError(c, err)
	}

	h.publish(c, token, map[string]any{
		"type":       "cart_item_removed",
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
	})
	return c.JSON(http.StatusOK, items)
}
