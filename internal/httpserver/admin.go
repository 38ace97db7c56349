package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bobaandbao/storefront/internal/logging"
	"github.com/bobaandbao/storefront/internal/models"
	"github.com/bobaandbao/storefront/internal/notify"
	"github.com/bobaandbao/storefront/internal/repo"
	"github.com/bobaandbao/storefront/internal/transport"
	"github.com/bobaandbao/storefront/internal/util"
)

// AdminHandler is the back-office order surface. It consumes the order
// store's read/update/delete paths; it never touches carts or the gateway.
type AdminHandler struct {
	Repo     *repo.GormRepo
	Notifier notify.Sender
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, total, err := h.Repo.ListOrders(ctx, c.QueryParam("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Repo.GetOrderByRowID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return respondError(c, err)
	}

	items, err := h.Repo.GetOrderItems(ctx, order.OrderID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"order": order,
		"items": items,
	})
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.OrderStatus != "" && !validOrderStatus(req.OrderStatus) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown order status")
	}
	if req.PaymentStatus != "" && !validPaymentStatus(req.PaymentStatus) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown payment status")
	}

	if err := h.Repo.UpdateOrderStatusByID(ctx, uint(id), req.OrderStatus, req.PaymentStatus); err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return respondError(c, err)
	}

	l.Info("order status updated", "id", id, "order_status", req.OrderStatus, "payment_status", req.PaymentStatus)
	return c.JSON(http.StatusOK, map[string]string{"message": "order status updated"})
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Repo.DeleteOrder(ctx, uint(id)); err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) BulkDeleteOrders(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.IDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "ids required")
	}

	if err := h.Repo.DeleteOrders(ctx, req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"deleted": req.IDs})
}

// TestNotification re-sends the confirmation email for an order so an
// operator can verify SMTP settings.
func (h *AdminHandler) TestNotification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.test_notification")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	order, err := h.Repo.GetOrderByRowID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return respondError(c, err)
	}
	items, err := h.Repo.GetOrderItems(ctx, order.OrderID)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.Notifier.SendOrderConfirmation(order, items); err != nil {
		l.Error("test notification failed", "order_id", order.OrderID, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "notification failed: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "notification sent"})
}

func validOrderStatus(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled, models.OrderStatusCompleted:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch s {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
		return true
	}
	return false
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
